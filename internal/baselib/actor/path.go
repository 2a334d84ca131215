package actor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Scope partitions the actor namespace of a system into a fixed set of
// top-level namespaces. Every ActorPath belongs to exactly one scope.
type Scope int

const (
	// ScopeUnknown is reserved for parse failures. It is never valid for
	// construction of a new path.
	ScopeUnknown Scope = iota

	// ScopeUser holds actors created directly by application code.
	ScopeUser

	// ScopeSystem holds actors internal to the runtime (the root actor
	// and the guardians beneath it).
	ScopeSystem

	// ScopeTemp holds short-lived actors created to service a single
	// Ask/find round trip.
	ScopeTemp

	// ScopeRemote is reserved for actors that proxy a remote system. The
	// runtime never resolves remote paths itself (remote messaging is a
	// Non-goal); the scope exists so paths can name remote-looking actors
	// for the external transport collaborator to interpret.
	ScopeRemote

	// ScopeDead names the dead-letter sink. Sends to a dead-scope ref are
	// silently dropped.
	ScopeDead
)

// String renders the scope as its path token.
func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeSystem:
		return "system"
	case ScopeTemp:
		return "temp"
	case ScopeRemote:
		return "remote"
	case ScopeDead:
		return "dead"
	default:
		return "unknown"
	}
}

// pathScheme is the fixed root prefix every ActorPath begins with.
const pathScheme = "yato://"

// systemNamePattern matches a valid system name: nonempty,
// alphanumeric/underscore only.
var systemNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ErrInvalidPath indicates a malformed actor path string, an invalid system
// name, or an invalid actor name segment.
var ErrInvalidPath = fmt.Errorf("invalid actor path")

// ActorPath is a value-typed, immutable, hierarchical, string-addressable
// actor name of the form
// "yato://<system>/<scope>/<segment>(/<segment>)*". Equality is string
// equality on the rendered path.
type ActorPath struct {
	system string
	scope  Scope
	names  []string
}

// scopeFromToken maps a path scope token to its Scope value. An unrecognized
// token yields ScopeUnknown.
func scopeFromToken(tok string) Scope {
	switch tok {
	case "user":
		return ScopeUser
	case "system":
		return ScopeSystem
	case "temp":
		return ScopeTemp
	case "remote":
		return ScopeRemote
	case "dead":
		return ScopeDead
	default:
		return ScopeUnknown
	}
}

// isValidActorName reports whether name is nonempty and every rune is a
// graphic, non-'/' character, per spec.
func isValidActorName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '/' || !unicode.IsGraphic(r) {
			return false
		}
	}
	return true
}

// NewActorPath constructs a validated ActorPath from its constituent parts.
// The system name must be nonempty and match [A-Za-z0-9_]+; every name
// segment must be nonempty and contain only graphic, non-'/' runes. The
// scope must not be ScopeUnknown.
func NewActorPath(system string, scope Scope, names ...string) (ActorPath, error) {
	if !systemNamePattern.MatchString(system) {
		return ActorPath{}, fmt.Errorf("%w: invalid system name %q",
			ErrInvalidPath, system)
	}
	if scope == ScopeUnknown {
		return ActorPath{}, fmt.Errorf(
			"%w: scope %q is reserved for parse failures",
			ErrInvalidPath, scope)
	}
	if len(names) == 0 {
		return ActorPath{}, fmt.Errorf(
			"%w: path requires at least one name segment", ErrInvalidPath)
	}
	for _, n := range names {
		if !isValidActorName(n) {
			return ActorPath{}, fmt.Errorf(
				"%w: invalid actor name segment %q", ErrInvalidPath, n)
		}
	}

	cp := make([]string, len(names))
	copy(cp, names)

	return ActorPath{system: system, scope: scope, names: cp}, nil
}

// ParsePath parses a full path string of the form
// "yato://<system>/<scope>/<segment>(/<segment>)*". If headerOnly is true,
// parsing stops after the scope token and no name segments are required
// (names will be empty); this mirrors the original's "header_only" parse
// mode used for cheap validity checks. On any malformed input, ParsePath
// returns a zero-value ActorPath with scope ScopeUnknown and a non-nil
// error; ScopeUnknown is never returned for a successfully parsed path.
func ParsePath(raw string, headerOnly bool) (ActorPath, error) {
	if !strings.HasPrefix(raw, pathScheme) {
		return ActorPath{}, fmt.Errorf(
			"%w: missing %q prefix", ErrInvalidPath, pathScheme)
	}

	rest := strings.TrimPrefix(raw, pathScheme)
	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		return ActorPath{}, fmt.Errorf(
			"%w: path %q missing system/scope", ErrInvalidPath, raw)
	}

	system := parts[0]
	if !systemNamePattern.MatchString(system) {
		return ActorPath{}, fmt.Errorf("%w: invalid system name %q",
			ErrInvalidPath, system)
	}

	scope := scopeFromToken(parts[1])
	if scope == ScopeUnknown {
		return ActorPath{}, fmt.Errorf("%w: unrecognized scope %q",
			ErrInvalidPath, parts[1])
	}

	if headerOnly {
		return ActorPath{system: system, scope: scope}, nil
	}

	names := parts[2:]
	if len(names) == 0 {
		return ActorPath{}, fmt.Errorf(
			"%w: path %q has no name segments", ErrInvalidPath, raw)
	}
	for _, n := range names {
		if !isValidActorName(n) {
			return ActorPath{}, fmt.Errorf(
				"%w: invalid actor name segment %q", ErrInvalidPath, n)
		}
	}

	cp := make([]string, len(names))
	copy(cp, names)

	return ActorPath{system: system, scope: scope, names: cp}, nil
}

// System returns the actor system name this path belongs to.
func (p ActorPath) System() string {
	return p.system
}

// ActorScope returns the path's scope.
func (p ActorPath) ActorScope() Scope {
	return p.scope
}

// Name returns the final (leaf) name segment, or the empty string for a
// header-only path.
func (p ActorPath) Name() string {
	if len(p.names) == 0 {
		return ""
	}
	return p.names[len(p.names)-1]
}

// Segments returns a copy of the path's name segments, root-to-leaf.
func (p ActorPath) Segments() []string {
	cp := make([]string, len(p.names))
	copy(cp, p.names)
	return cp
}

// IsEmpty reports whether this is the zero-value path (no system),
// conventionally used to denote a failed actor lookup.
func (p ActorPath) IsEmpty() bool {
	return p.system == ""
}

// Join appends a new name segment, returning the child path. The parent
// path's scope and system are preserved.
func (p ActorPath) Join(name string) (ActorPath, error) {
	if !isValidActorName(name) {
		return ActorPath{}, fmt.Errorf(
			"%w: invalid actor name segment %q", ErrInvalidPath, name)
	}

	names := make([]string, len(p.names)+1)
	copy(names, p.names)
	names[len(names)-1] = name

	return ActorPath{system: p.system, scope: p.scope, names: names}, nil
}

// Parent returns the path one level up the hierarchy and true, or the
// zero-value path and false if this path has zero or one name segments.
func (p ActorPath) Parent() (ActorPath, bool) {
	if len(p.names) <= 1 {
		return ActorPath{}, false
	}
	names := make([]string, len(p.names)-1)
	copy(names, p.names[:len(p.names)-1])

	return ActorPath{system: p.system, scope: p.scope, names: names}, true
}

// String renders the path in canonical "yato://<system>/<scope>/<segs>"
// form.
func (p ActorPath) String() string {
	if p.IsEmpty() {
		return ""
	}

	var b strings.Builder
	b.WriteString(pathScheme)
	b.WriteString(p.system)
	b.WriteByte('/')
	b.WriteString(p.scope.String())
	for _, n := range p.names {
		b.WriteByte('/')
		b.WriteString(n)
	}
	return b.String()
}

// Equal reports whether two paths are string-equal.
func (p ActorPath) Equal(o ActorPath) bool {
	return p.String() == o.String()
}
