package automation

import (
	"encoding/json"
	"strings"
)

// adhocSeparator splits "host | STATUS => {json}" tool output.
const adhocSeparator = " => "

// okStatuses are the ad-hoc statuses that report a successful module run.
var okStatuses = map[string]bool{"SUCCESS": true, "CHANGED": true}

// parseAdhocOutput maps ad-hoc module output onto a Result. Keys with a typed
// field are decoded into it; anything else, or anything of an unexpected
// shape, is kept in Raw. Output without a JSON payload is returned as Stdout.
// A FAILED or UNREACHABLE status, or a payload that is not a JSON object,
// yields an unsuccessful Result.
func parseAdhocOutput(out string) *Result {
	trimmed := strings.TrimSpace(out)
	i := strings.Index(trimmed, adhocSeparator)
	if i < 0 {
		return &Result{Success: true, Stdout: trimmed}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed[i+len(adhocSeparator):])), &fields); err != nil {
		res := failure("unparsable module output: " + err.Error())
		res.Stdout = trimmed
		return res
	}

	res := &Result{Success: true}
	for key, raw := range fields {
		if !res.decodeField(key, raw) {
			res.keepRaw(key, raw)
		}
	}

	if status := adhocStatus(trimmed[:i]); !okStatuses[status] {
		res.Success = false
		res.Error = firstNonEmpty(res.Msg, status)
	}
	return res
}

// adhocStatus returns the status word of a "host | STATUS" header.
func adhocStatus(header string) string {
	parts := strings.Split(header, "|")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSuffix(strings.TrimSpace(parts[1]), "!")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *Result) keepRaw(key string, raw json.RawMessage) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		v = string(raw)
	}
	if r.Raw == nil {
		r.Raw = make(map[string]any)
	}
	r.Raw[key] = v
}

// decodeField reports whether key was recognised and decoded.
func (r *Result) decodeField(key string, raw json.RawMessage) bool {
	switch key {
	case "changed":
		var b bool
		if json.Unmarshal(raw, &b) != nil {
			return false
		}
		r.Changed = &b
	case "msg":
		return json.Unmarshal(raw, &r.Msg) == nil
	case "message":
		return json.Unmarshal(raw, &r.Message) == nil
	case "backup_path":
		return json.Unmarshal(raw, &r.BackupPath) == nil
	case "updates":
		return json.Unmarshal(raw, &r.Updates) == nil
	case "diff":
		var d Diff
		if json.Unmarshal(raw, &d) != nil {
			return false
		}
		r.Diff = &d
	case "stdout":
		// Command modules report one string per command.
		var list []string
		if json.Unmarshal(raw, &list) == nil {
			r.Stdout = strings.Join(list, "\n")
			return true
		}
		return json.Unmarshal(raw, &r.Stdout) == nil
	case "stdout_lines":
		var nested [][]string
		if json.Unmarshal(raw, &nested) == nil {
			r.StdoutLines = nested
			return true
		}
		var flat []string
		if json.Unmarshal(raw, &flat) != nil {
			return false
		}
		r.StdoutLines = [][]string{flat}
	case "ansible_facts":
		facts, ok := decodeNetFacts(raw)
		if !ok {
			return false
		}
		r.NetFacts = facts
	default:
		return false
	}
	return true
}

// decodeNetFacts converts an ansible_facts block with ansible_net_* keys into
// NetFacts.
func decodeNetFacts(raw json.RawMessage) (*NetFacts, bool) {
	var facts map[string]json.RawMessage
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil, false
	}

	stripped := make(map[string]json.RawMessage, len(facts))
	for k, v := range facts {
		if name := strings.TrimPrefix(k, "ansible_"); strings.HasPrefix(name, "net_") {
			stripped[name] = v
		}
	}
	if len(stripped) == 0 {
		return nil, false
	}

	data, err := json.Marshal(stripped)
	if err != nil {
		return nil, false
	}
	var nf NetFacts
	if err := json.Unmarshal(data, &nf); err != nil {
		return nil, false
	}
	return &nf, true
}

// UnmarshalJSON accepts either a single address object or the list form the
// automation tool reports, keeping the first entry.
func (a *IPv4Address) UnmarshalJSON(data []byte) error {
	type plain IPv4Address
	var list []plain
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*a = IPv4Address(list[0])
		}
		return nil
	}
	var one plain
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*a = IPv4Address(one)
	return nil
}
