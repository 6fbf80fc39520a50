// Package docs registers the Swagger description of the channel feed API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/feed/{channel_id}/posts": {
            "get": {
                "description": "Retrieves the most recent posts of a channel feed, each with its most recent comments",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Get posts from a channel feed",
                "parameters": [
                    {"type": "integer", "description": "Twitch channel ID", "name": "channel_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum number of posts (vendor default 10, maximum 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Cursor of the page to fetch", "name": "cursor", "in": "query"},
                    {"type": "integer", "description": "Number of comments per post (vendor default 5, maximum 5)", "name": "comments", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FeedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        },
        "/feed/{channel_id}/posts/{post_id}": {
            "get": {
                "description": "Retrieves one post of a channel feed with its most recent comments",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Get a single channel feed post",
                "parameters": [
                    {"type": "integer", "description": "Twitch channel ID", "name": "channel_id", "in": "path", "required": true},
                    {"type": "string", "description": "Post ID", "name": "post_id", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of comments to include (vendor default 5, maximum 5)", "name": "comments", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        },
        "/feed/posts": {
            "post": {
                "description": "Requires an OAuth token carrying the channel_feed_edit scope",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feed"],
                "summary": "Publish a post to the caller's channel feed",
                "parameters": [
                    {"type": "string", "description": "OAuth <token>", "name": "Authorization", "in": "header", "required": true},
                    {"type": "boolean", "description": "Share to connected Twitter account", "name": "share", "in": "query"},
                    {"description": "Post content", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreatePostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CreatePostResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.HTTPError"}}
                }
            }
        }
    },
    "definitions": {
        "models.HTTPError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "name": {"type": "string"},
                "display_name": {"type": "string"},
                "type": {"type": "string"},
                "bio": {"type": "string"},
                "logo": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.Emote": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "set": {"type": "integer"},
                "start": {"type": "integer"},
                "end": {"type": "integer"}
            }
        },
        "models.Reaction": {
            "type": "object",
            "properties": {
                "emote": {"type": "string"},
                "count": {"type": "integer"},
                "user_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Permissions": {
            "type": "object",
            "properties": {
                "can_delete": {"type": "boolean"},
                "can_moderate": {"type": "boolean"},
                "can_reply": {"type": "boolean"}
            }
        },
        "models.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "body": {"type": "string"},
                "created_at": {"type": "string"},
                "deleted": {"type": "boolean"},
                "emotes": {"type": "array", "items": {"$ref": "#/definitions/models.Emote"}},
                "reactions": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Reaction"}},
                "user": {"$ref": "#/definitions/models.User"},
                "permissions": {"$ref": "#/definitions/models.Permissions"}
            }
        },
        "models.CommentList": {
            "type": "object",
            "properties": {
                "_total": {"type": "integer"},
                "_cursor": {"type": "string"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/models.Comment"}}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "body": {"type": "string"},
                "created_at": {"type": "string"},
                "deleted": {"type": "boolean"},
                "emotes": {"type": "array", "items": {"$ref": "#/definitions/models.Emote"}},
                "reactions": {"type": "object", "additionalProperties": {"$ref": "#/definitions/models.Reaction"}},
                "user": {"$ref": "#/definitions/models.User"},
                "permissions": {"$ref": "#/definitions/models.Permissions"},
                "comments": {"$ref": "#/definitions/models.CommentList"}
            }
        },
        "models.FeedMeta": {
            "type": "object",
            "properties": {
                "channel_id": {"type": "integer"},
                "requested_limit": {"type": "integer"},
                "actual_count": {"type": "integer"},
                "cursor": {"type": "string"},
                "processing_time_ms": {"type": "integer"}
            }
        },
        "models.FeedResponse": {
            "type": "object",
            "properties": {
                "posts": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "meta": {"$ref": "#/definitions/models.FeedMeta"}
            }
        },
        "models.CreatePostRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"}
            }
        },
        "models.CreatePostResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "shared": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Channel Feed API",
	Description:      "This API exposes the posts of Twitch channel feeds and lets a channel owner publish to their own feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
