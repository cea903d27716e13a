package rbac

// DefaultRolePermissions is the seeding table consumed the first time a role
// is materialized via the Session Store's GetOrCreateRoleByName path. superuser
// carries only the wildcard; every other role gets an explicit list so
// permission derivation never needs a wildcard special-case outside it.
var DefaultRolePermissions = map[RoleName][]PermissionName{
	RoleSuperuser: {PermissionAllOfAll},

	RoleStaff: {
		PermissionAllOfUsers,
		PermissionAllOfContent,
		PermissionAllOfRatings,
		PermissionAllOfComments,
	},

	RoleGuest: {
		PermissionReadContentFree,
		PermissionReadRatings,
		PermissionReadCommentsAll,
	},

	RoleRegistered: {
		PermissionReadUsers,
		PermissionReadContentFree,
		PermissionReadRatings,
		PermissionCreateRatings,
		PermissionCreateComments,
		PermissionReadCommentsAll,
		PermissionUpdateCommentsMy,
	},

	RolePremium: {
		PermissionReadContentFree,
		PermissionReadContentPremium,
		PermissionCreateRatings,
		PermissionReadRatings,
		PermissionUpdateRatings,
		PermissionCreateComments,
		PermissionReadCommentsAll,
		PermissionUpdateCommentsMy,
	},
}
