package environment

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownType is returned by Lookup for an OS type nobody registered.
var ErrUnknownType = errors.New("unknown environment type")

// CreateParams carries everything needed to register a new environment.
// Fields that do not apply to an OS type are ignored.
type CreateParams struct {
	Type     string
	Name     string
	HostUser string
	Address  string

	// Password authenticates HostUser. Empty means the engine's SSH key
	// on Unix hosts; Windows hosts always get a password credential, even
	// an empty one.
	Password string

	// Unix only.
	ToolkitPath string
	ASEUser     string
	ASEPassword string

	// Windows only.
	ConnectorName string
	ConnectorPort int
}

// Creator registers a new environment of one OS type. Service method
// expressions such as (*Service).CreateLinux satisfy it.
type Creator func(s *Service, ctx context.Context, p CreateParams) (*Result, error)

// registry holds the registered creators keyed by OS type.
var registry = make(map[string]Creator)

// Register registers a creator for the given OS type.
// This should be called during package init.
func Register(osType string, creator Creator) {
	if _, exists := registry[osType]; exists {
		panic(fmt.Sprintf("environment type %q already registered", osType))
	}
	registry[osType] = creator
}

// Lookup returns the creator registered for osType.
func Lookup(osType string) (Creator, error) {
	creator, ok := registry[osType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (expected one of %v)", ErrUnknownType, osType, RegisteredTypes())
	}
	return creator, nil
}

// RegisteredTypes returns the registered OS types in sorted order.
func RegisteredTypes() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Create looks up the creator for p.Type and runs it.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Result, error) {
	creator, err := Lookup(p.Type)
	if err != nil {
		return nil, err
	}
	return creator(s, ctx, p)
}
