package validation

// Register はユーザー登録リクエストのスキーマ。
var Register = MustSchema("register", `{
	"type": "object",
	"properties": {
		"name":     {"type": "string", "minLength": 3},
		"email":    {"type": "string", "format": "email"},
		"password": {"type": "string", "minLength": 6}
	},
	"required": ["name", "email", "password"]
}`)

// Login はログインリクエストのスキーマ。
var Login = MustSchema("login", `{
	"type": "object",
	"properties": {
		"email":    {"type": "string", "format": "email"},
		"password": {"type": "string", "minLength": 6}
	},
	"required": ["email", "password"]
}`)

// Recipe はレシピ作成・更新リクエストのスキーマ。
var Recipe = MustSchema("recipe", `{
	"type": "object",
	"properties": {
		"name":            {"type": "string", "minLength": 3},
		"description":     {"type": "string", "minLength": 3},
		"preparationTime": {"type": "number"}
	},
	"required": ["name", "description", "preparationTime"]
}`)
