package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Faculty Feedback API",
        "description": "Anonymous faculty feedback collection and statistics",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Feedback",
            "description": "Anonymous feedback form"
        },
        {
            "name": "Statistics",
            "description": "Aggregated ratings"
        },
        {
            "name": "Reports",
            "description": "CSV and PDF exports"
        },
        {
            "name": "Batches",
            "description": "Feedback batch management"
        },
        {
            "name": "Faculty",
            "description": "Faculty records"
        }
    ],
    "paths": {
        "/feedback/submit": {
            "post": {
                "tags": [
                    "Feedback"
                ],
                "summary": "Submit anonymous feedback for a batch",
                "responses": {
                    "201": {
                        "description": "Stored",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Rejected",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "429": {
                        "description": "Rate limited"
                    },
                    "503": {
                        "description": "Storage unavailable, retry"
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitFeedbackRequest"
                        }
                    }
                ]
            }
        },
        "/feedback/batches/{id}/count": {
            "get": {
                "tags": [
                    "Feedback"
                ],
                "summary": "Count distinct submissions for a batch",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    }
                ]
            }
        },
        "/batches/{id}/public": {
            "get": {
                "tags": [
                    "Feedback"
                ],
                "summary": "Active batch details for the feedback form",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    }
                ]
            }
        },
        "/stats/faculty/{id}": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Per-slot statistics for a faculty member",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stats/faculty/{id}/comparison": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Slot 1 versus slot 2 comparison",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stats/batches/{id}": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Statistics for every faculty member of a batch",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stats/departments": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Department rollup with the top rated faculty",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "college",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "College"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Department"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stats/analytics": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Faculty ranked by satisfaction",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "college",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "College"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Department"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stats/overview": {
            "get": {
                "tags": [
                    "Statistics"
                ],
                "summary": "Dashboard totals with college and department breakdowns",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "college",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "College"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Department"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/faculty/{id}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Download a faculty feedback report",
                "responses": {
                    "200": {
                        "description": "Report file"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "csv or pdf"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/reports/faculty/{id}/data": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Raw rating records for a faculty member",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/batches/{id}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Download a batch feedback report",
                "responses": {
                    "200": {
                        "description": "Report file"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "csv or pdf"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "text/csv",
                    "application/pdf"
                ]
            }
        },
        "/reports": {
            "post": {
                "tags": [
                    "Reports"
                ],
                "summary": "Queue a report for background generation",
                "responses": {
                    "202": {
                        "description": "Queued",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ReportRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Report job status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Job ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/export/{token}": {
            "get": {
                "tags": [
                    "Reports"
                ],
                "summary": "Download a generated report via signed token",
                "responses": {
                    "200": {
                        "description": "Report file"
                    },
                    "403": {
                        "description": "Invalid or expired token"
                    },
                    "404": {
                        "description": "Report file expired"
                    }
                },
                "parameters": [
                    {
                        "name": "token",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ]
            }
        },
        "/batches": {
            "get": {
                "tags": [
                    "Batches"
                ],
                "summary": "List feedback batches",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "college",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "College"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Department"
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "type": "boolean",
                        "description": "Only active"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Page"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Page size"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Batches"
                ],
                "summary": "Publish a feedback batch",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateBatchRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/batches/{id}": {
            "get": {
                "tags": [
                    "Batches"
                ],
                "summary": "Get a batch",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Batches"
                ],
                "summary": "Close a batch for new submissions",
                "responses": {
                    "204": {
                        "description": "Closed"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Batch ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/faculty": {
            "get": {
                "tags": [
                    "Faculty"
                ],
                "summary": "List faculty",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "college",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "College"
                    },
                    {
                        "name": "department",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Department"
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "required": false,
                        "type": "string",
                        "description": "Name or code"
                    },
                    {
                        "name": "active",
                        "in": "query",
                        "required": false,
                        "type": "boolean",
                        "description": "Only active"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Page"
                    },
                    {
                        "name": "page_size",
                        "in": "query",
                        "required": false,
                        "type": "integer",
                        "description": "Page size"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Faculty"
                ],
                "summary": "Register a faculty member",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateFacultyRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/faculty/{id}": {
            "get": {
                "tags": [
                    "Faculty"
                ],
                "summary": "Get a faculty member",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Faculty"
                ],
                "summary": "Deactivate a faculty member",
                "responses": {
                    "204": {
                        "description": "Deactivated"
                    }
                },
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "string",
                        "description": "Faculty ID"
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "SubmitFeedbackRequest": {
            "type": "object",
            "required": [
                "batchId",
                "responses"
            ],
            "properties": {
                "batchId": {
                    "type": "string"
                },
                "comments": {
                    "type": "string"
                },
                "responses": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "facultyId": {
                                "type": "string"
                            },
                            "ratings": {
                                "type": "object",
                                "additionalProperties": {
                                    "type": "integer",
                                    "minimum": 1,
                                    "maximum": 10
                                }
                            }
                        }
                    }
                }
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": [
                "type",
                "subjectId",
                "format"
            ],
            "properties": {
                "type": {
                    "type": "string",
                    "enum": [
                        "faculty",
                        "batch"
                    ]
                },
                "subjectId": {
                    "type": "string"
                },
                "format": {
                    "type": "string",
                    "enum": [
                        "csv",
                        "pdf"
                    ]
                }
            }
        },
        "CreateBatchRequest": {
            "type": "object",
            "properties": {
                "college": {
                    "type": "string"
                },
                "department": {
                    "type": "string"
                },
                "branch": {
                    "type": "string"
                },
                "year": {
                    "type": "string"
                },
                "semester": {
                    "type": "string"
                },
                "section": {
                    "type": "string"
                },
                "slot": {
                    "type": "integer",
                    "enum": [
                        1,
                        2
                    ]
                },
                "slotLabel": {
                    "type": "string"
                },
                "slotStartDate": {
                    "type": "string",
                    "format": "date"
                },
                "slotEndDate": {
                    "type": "string",
                    "format": "date"
                },
                "facultyIds": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "CreateFacultyRequest": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "subject": {
                    "type": "string"
                },
                "college": {
                    "type": "string"
                },
                "department": {
                    "type": "string"
                },
                "branch": {
                    "type": "string"
                },
                "year": {
                    "type": "string"
                },
                "semester": {
                    "type": "string"
                },
                "section": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                },
                "details": {
                    "type": "object"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
