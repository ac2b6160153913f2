package types

import "strings"

// PatchType tags a boundary patch with its physical condition. It is free form,
// the named values are the ones the builder and the parameter file recognize.
type PatchType string

const (
	PatchWall     PatchType = "wall"
	PatchInlet    PatchType = "inlet"
	PatchOutlet   PatchType = "outlet"
	PatchSymmetry PatchType = "symmetry"
	PatchGeneric  PatchType = "patch"
)

var PatchNameMap = map[string]PatchType{
	"wall":      PatchWall,
	"inflow":    PatchInlet,
	"in":        PatchInlet,
	"inlet":     PatchInlet,
	"outflow":   PatchOutlet,
	"out":       PatchOutlet,
	"outlet":    PatchOutlet,
	"symmetry":  PatchSymmetry,
	"sym":       PatchSymmetry,
	"slip":      PatchSymmetry,
	"patch":     PatchGeneric,
	"":          PatchGeneric,
	"far":       PatchGeneric,
	"farfield":  PatchGeneric,
	"generic":   PatchGeneric,
	"undefined": PatchGeneric,
}

// NewPatchType maps known aliases onto their canonical tag and keeps any other token verbatim
func NewPatchType(token string) PatchType {
	if pt, ok := PatchNameMap[strings.ToLower(strings.TrimSpace(token))]; ok {
		return pt
	}
	return PatchType(token)
}

// IsKnown reports whether the tag is one of the canonical types
func (pt PatchType) IsKnown() bool {
	switch pt {
	case PatchWall, PatchInlet, PatchOutlet, PatchSymmetry, PatchGeneric:
		return true
	}
	return false
}

func (pt PatchType) String() string { return string(pt) }
