package privmedia

import (
	"context"
	"strings"
)

// PermissionChecker decides whether an identity may read a resource path.
// Implementations must be free of side effects.
type PermissionChecker interface {
	HasReadPermission(ctx context.Context, id Identity, path string) bool
}

// PermissionCheckerFunc adapts a function to the PermissionChecker interface.
type PermissionCheckerFunc func(ctx context.Context, id Identity, path string) bool

func (f PermissionCheckerFunc) HasReadPermission(ctx context.Context, id Identity, path string) bool {
	return f(ctx, id, path)
}

// DefaultPermissions lets authenticated staff members and superusers read
// every file, and no one else.
type DefaultPermissions struct{}

func (DefaultPermissions) HasReadPermission(_ context.Context, id Identity, _ string) bool {
	switch {
	case !id.Authenticated:
		return false
	case id.Superuser:
		return true
	case id.Staff:
		return true
	default:
		return false
	}
}

// OwnerOptions configures OwnerPermissions.
type OwnerOptions struct {
	// Segment is the zero-based index of the path segment holding the owner's
	// user ID. The default of 1 matches paths like "cars/<owner>/photo.jpg".
	Segment int `mapstructure:"segment"`
}

// OwnerPermissions extends DefaultPermissions by also letting the owner read
// a file, where the owner's user ID is encoded as one segment of the path at
// upload time. It is never used unless configured explicitly.
type OwnerPermissions struct {
	segment int
}

func NewOwnerPermissions(opts OwnerOptions) *OwnerPermissions {
	return &OwnerPermissions{segment: opts.Segment}
}

func (p *OwnerPermissions) HasReadPermission(ctx context.Context, id Identity, path string) bool {
	if (DefaultPermissions{}).HasReadPermission(ctx, id, path) {
		return true
	}

	if !id.Authenticated || id.UserID == "" {
		return false
	}

	segments := strings.Split(path, "/")
	// the owner segment must be a directory, never the file name itself
	if p.segment < 0 || p.segment >= len(segments)-1 {
		return false
	}

	return segments[p.segment] == id.UserID
}
