package signature

import (
	"github.com/h-merrill/minnow/set"
)

type NameTypePair = struct {
	VarName string
	VarType string
}

type NamedSignature []NameTypePair

func (ns NamedSignature) String() (result string) {
	for _, v := range ns {
		if result != "" {
			result = result + ", "
		}
		result = result + v.VarType + " " + v.VarName
	}
	result = "(" + result + ")"
	return
}

func (ns NamedSignature) Types() []string {
	result := make([]string, len(ns))
	for i, v := range ns {
		result[i] = v.VarType
	}
	return result
}

func (ns NamedSignature) NameSet() (result set.Set[string]) {
	for _, v := range ns {
		result.Add(v.VarName)
	}
	return
}
