package report

import "github.com/openchips/legend/pkg/chips"

// InspectorFor returns a typed object-query view of tk. Hosts that
// implement chips.Inspector themselves are returned as-is, everything
// else is answered by parsing the free-text reports.
func InspectorFor(tk chips.Toolkit) chips.Inspector {
	if ins, ok := tk.(chips.Inspector); ok {
		return ins
	}
	return &inspector{tk: tk}
}

type inspector struct {
	tk chips.Toolkit
}

func (i *inspector) ListObjects(kind chips.ObjectKind) ([]string, error) {
	rep, err := i.tk.Info()
	if err != nil {
		return nil, err
	}
	return All(rep, kind)
}

func (i *inspector) CurrentObject(kind chips.ObjectKind) (string, error) {
	rep, err := i.tk.InfoCurrent()
	if err != nil {
		return "", err
	}
	return Current(rep, kind)
}
