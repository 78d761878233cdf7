package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA ADP API",
        "description": "Genetic-algorithm timetable scheduler for a single school's academic year",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Exchange credentials for a JWT",
                "tags": ["Auth"],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "summary": "Return the authenticated caller's profile",
                "tags": ["Auth"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/schedules": {
            "get": {
                "summary": "List schedules",
                "tags": ["Schedules"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "summary": "Open a new draft schedule",
                "tags": ["Schedules"],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/schedules/{id}": {
            "get": {
                "summary": "Get a schedule",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "summary": "Delete a schedule and its details/conflicts",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedules/{id}/generate": {
            "post": {
                "summary": "Start a genetic-algorithm generation run for a schedule",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"202": {"description": "Accepted"}, "409": {"description": "Already running"}}
            },
            "delete": {
                "summary": "Cooperatively cancel an active generation run",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/schedules/{id}/details": {
            "get": {
                "summary": "List a schedule's lesson assignments",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedule-details/{detailId}": {
            "put": {
                "summary": "Apply a manual edit to one lesson assignment",
                "tags": ["Schedules"],
                "parameters": [{"name": "detailId", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "summary": "Remove one lesson assignment",
                "tags": ["Schedules"],
                "parameters": [{"name": "detailId", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedules/{id}/conflicts": {
            "get": {
                "summary": "List detected conflicts for a schedule",
                "tags": ["Conflicts"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedules/{id}/conflicts/detect": {
            "post": {
                "summary": "Re-run conflict detection over a schedule's current assignments",
                "tags": ["Conflicts"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedules/{id}/conflicts/{conflictId}/resolutions": {
            "get": {
                "summary": "List candidate repair moves for one conflict",
                "tags": ["Conflicts"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "conflictId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "summary": "Apply a chosen repair move for one conflict",
                "tags": ["Conflicts"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "conflictId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Feasibility violated"}}
            }
        },
        "/schedules/{id}/ws": {
            "get": {
                "summary": "Stream generation progress for a schedule over a websocket",
                "tags": ["Schedules"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/departments": {
            "get": {"summary": "List departments", "tags": ["Departments"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a department", "tags": ["Departments"], "responses": {"201": {"description": "Created"}}}
        },
        "/classes": {
            "get": {"summary": "List classes", "tags": ["Classes"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a class", "tags": ["Classes"], "responses": {"201": {"description": "Created"}}}
        },
        "/subjects": {
            "get": {"summary": "List subjects", "tags": ["Subjects"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a subject", "tags": ["Subjects"], "responses": {"201": {"description": "Created"}}}
        },
        "/rooms": {
            "get": {"summary": "List rooms", "tags": ["Rooms"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a room", "tags": ["Rooms"], "responses": {"201": {"description": "Created"}}}
        },
        "/time-slots": {
            "get": {"summary": "List time slots", "tags": ["TimeSlots"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a time slot", "tags": ["TimeSlots"], "responses": {"201": {"description": "Created"}}}
        },
        "/curricula": {
            "get": {"summary": "List curriculum rows", "tags": ["Curricula"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a curriculum row", "tags": ["Curricula"], "responses": {"201": {"description": "Created"}}}
        },
        "/teachers": {
            "get": {"summary": "List teachers", "tags": ["Teachers"], "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Create a teacher", "tags": ["Teachers"], "responses": {"201": {"description": "Created"}}}
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
