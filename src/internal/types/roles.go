package types

import "strings"

// SymbolRole represents bitset flags for the roles a symbol plays at an
// occurrence. A single occurrence may carry several roles (a definition is
// usually also a write, a call is also a reference).
type SymbolRole int32

const (
	// SymbolRoleDefinition marks the occurrence that defines the symbol.
	SymbolRoleDefinition SymbolRole = 0x1

	// SymbolRoleDeclaration marks a forward or interface declaration.
	SymbolRoleDeclaration SymbolRole = 0x2

	// SymbolRoleReference marks a plain use of the symbol.
	SymbolRoleReference SymbolRole = 0x4

	// SymbolRoleCall marks a call of a function-like symbol.
	SymbolRoleCall SymbolRole = 0x8

	// SymbolRoleRead marks read access.
	SymbolRoleRead SymbolRole = 0x10

	// SymbolRoleWrite marks write access.
	SymbolRoleWrite SymbolRole = 0x20
)

// HasRole checks if the SymbolRole has the specified role bit set.
func (r SymbolRole) HasRole(role SymbolRole) bool {
	return r&role != 0
}

// AddRole adds the specified role bit to the SymbolRole.
func (r SymbolRole) AddRole(role SymbolRole) SymbolRole {
	return r | role
}

// String returns a human-readable representation of the SymbolRole.
func (r SymbolRole) String() string {
	var roles []string
	if r.HasRole(SymbolRoleDefinition) {
		roles = append(roles, "Definition")
	}
	if r.HasRole(SymbolRoleDeclaration) {
		roles = append(roles, "Declaration")
	}
	if r.HasRole(SymbolRoleReference) {
		roles = append(roles, "Reference")
	}
	if r.HasRole(SymbolRoleCall) {
		roles = append(roles, "Call")
	}
	if r.HasRole(SymbolRoleRead) {
		roles = append(roles, "Read")
	}
	if r.HasRole(SymbolRoleWrite) {
		roles = append(roles, "Write")
	}
	if len(roles) == 0 {
		return "None"
	}
	return strings.Join(roles, "|")
}

// UsageKind classifies how a symbol is used at one location. It is derived
// from the occurrence's role set with definition-like roles taking priority
// over calls, and calls over plain references.
type UsageKind int32

const (
	UsageUnknown UsageKind = iota
	UsageDefinition
	UsageCall
	UsageReference
)

// UsageFromRoles derives the UsageKind for an occurrence's role set.
func UsageFromRoles(roles SymbolRole) UsageKind {
	switch {
	case roles.HasRole(SymbolRoleDefinition) || roles.HasRole(SymbolRoleDeclaration):
		return UsageDefinition
	case roles.HasRole(SymbolRoleCall):
		return UsageCall
	case roles.HasRole(SymbolRoleReference) || roles.HasRole(SymbolRoleRead) || roles.HasRole(SymbolRoleWrite):
		return UsageReference
	default:
		return UsageUnknown
	}
}

func (u UsageKind) String() string {
	switch u {
	case UsageDefinition:
		return "definition"
	case UsageCall:
		return "call"
	case UsageReference:
		return "reference"
	default:
		return "unknown"
	}
}
