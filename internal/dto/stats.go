package dto

// DepartmentQuery binds the college/department scope of rollup endpoints.
type DepartmentQuery struct {
	College    string `form:"college"`
	Department string `form:"department"`
}
