package checkgroup

import "fmt"

// State is the per-render snapshot of a served group. It travels through the
// browser inside signed (or encrypted) props, so the server keeps no session.
type State struct {
	Checked     []bool
	CustomError string
	Reported    bool
}

// HXEncode implements Encodable.
func (s State) HXEncode() map[string]any {
	checked := make([]any, len(s.Checked))
	for i, c := range s.Checked {
		checked[i] = c
	}
	return map[string]any{
		"c": checked,
		"e": s.CustomError,
		"r": s.Reported,
	}
}

// HXDecode implements Decodable.
func (s *State) HXDecode(m map[string]any) error {
	s.Checked = nil
	if raw, ok := m["c"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%w: checked flags are %T", ErrInvalidFormat, raw)
		}
		s.Checked = make([]bool, len(list))
		for i, v := range list {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: checked flag %d is %T", ErrInvalidFormat, i, v)
			}
			s.Checked[i] = b
		}
	}

	s.CustomError, _ = m["e"].(string)
	s.Reported, _ = m["r"].(bool)
	return nil
}
