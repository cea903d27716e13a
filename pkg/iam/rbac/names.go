// Package rbac enumerates the fixed role and permission names the auth
// engine mints into token claims. Names are closed sets, not free-form
// strings: the Session Store only ever creates rows for names listed here.
package rbac

// RoleName is one of the enumerated role names a User can carry.
type RoleName string

const (
	RoleSuperuser   RoleName = "superuser"
	RoleStaff       RoleName = "staff"
	RoleGuest       RoleName = "guest"
	RoleRegistered  RoleName = "registered"
	RolePremium     RoleName = "premium"
)

// AllRoles lists every enumerated role name, in seeding order.
var AllRoles = []RoleName{RoleSuperuser, RoleStaff, RoleGuest, RoleRegistered, RolePremium}

// PermissionName is one of the enumerated permission names a Role can carry.
type PermissionName string

const (
	PermissionAllOfAll PermissionName = "all_of_all"

	PermissionAllOfUsers  PermissionName = "all_of_users"
	PermissionCreateUsers PermissionName = "create_users"
	PermissionReadUsers   PermissionName = "read_users"
	PermissionUpdateUsers PermissionName = "update_users"
	PermissionDeleteUsers PermissionName = "delete_users"

	PermissionAllOfContent       PermissionName = "all_of_content"
	PermissionCreateContent      PermissionName = "create_content"
	PermissionReadContentAll     PermissionName = "read_content_all"
	PermissionReadContentFree    PermissionName = "read_content_free"
	PermissionReadContentPremium PermissionName = "read_content_premium"
	PermissionUpdateContent      PermissionName = "update_content"
	PermissionDeleteContent      PermissionName = "delete_content"

	PermissionAllOfRatings  PermissionName = "all_of_ratings"
	PermissionCreateRatings PermissionName = "create_ratings"
	PermissionReadRatings   PermissionName = "read_ratings"
	PermissionUpdateRatings PermissionName = "update_ratings"
	PermissionDeleteRatings PermissionName = "delete_ratings"

	PermissionAllOfComments      PermissionName = "all_of_comments"
	PermissionCreateComments     PermissionName = "create_comments"
	PermissionReadCommentsAll    PermissionName = "read_comments_all"
	PermissionReadCommentsMy     PermissionName = "read_comments_my"
	PermissionUpdateCommentsAll  PermissionName = "update_comments_all"
	PermissionUpdateCommentsMy   PermissionName = "update_comments_my"
	PermissionDeleteComments     PermissionName = "delete_comments"
)

// AllPermissions lists every enumerated permission name.
var AllPermissions = []PermissionName{
	PermissionAllOfAll,
	PermissionAllOfUsers, PermissionCreateUsers, PermissionReadUsers, PermissionUpdateUsers, PermissionDeleteUsers,
	PermissionAllOfContent, PermissionCreateContent, PermissionReadContentAll, PermissionReadContentFree, PermissionReadContentPremium, PermissionUpdateContent, PermissionDeleteContent,
	PermissionAllOfRatings, PermissionCreateRatings, PermissionReadRatings, PermissionUpdateRatings, PermissionDeleteRatings,
	PermissionAllOfComments, PermissionCreateComments, PermissionReadCommentsAll, PermissionReadCommentsMy, PermissionUpdateCommentsAll, PermissionUpdateCommentsMy, PermissionDeleteComments,
}
