package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:take",
		"attempt:create",
		"attempt:view-own",
		"flag:create",
	},
	"moderator": {
		"quiz:take",
		"attempt:create",
		"attempt:view-own",
		"attempt:view-all",
		"flag:create",
		"flag:list",
		"flag:resolve",
	},
	"admin": {
		"*", // everything
	},
}
