// Package invite holds the guest-facing core of the invitation server:
// the group-type policy table, the access-code generator and the
// content projection that decides what a group is allowed to see.
// Everything here is pure; persistence stays in src-server/model.
package invite

import "fmt"

type GroupType string

const (
	GROUP_TYPE_WEDDING_GUEST = GroupType("WEDDING_GUEST")
	GROUP_TYPE_PARENTS_GUEST = GroupType("PARENTS_GUEST")
	GROUP_TYPE_COMPANY_GUEST = GroupType("COMPANY_GUEST")
)

// ParseGroupType rejects anything outside the closed enum. Creation
// paths must use this; silent coercion of a typo'd type would hand a
// group the wrong visibility policy.
func ParseGroupType(s string) (GroupType, error) {
	switch GroupType(s) {
	case GROUP_TYPE_WEDDING_GUEST, GROUP_TYPE_PARENTS_GUEST, GROUP_TYPE_COMPANY_GUEST:
		return GroupType(s), nil
	}
	return "", fmt.Errorf("ParseGroupType: unknown group type %q", s)
}

// ResolveGroupType is the read-path variant: a stored tag that no
// longer parses degrades to COMPANY_GUEST, the most restrictive type,
// so a data anomaly can only ever hide content, not leak it.
func ResolveGroupType(s string) GroupType {
	groupType, err := ParseGroupType(s)
	if err != nil {
		return GROUP_TYPE_COMPANY_GUEST
	}
	return groupType
}
