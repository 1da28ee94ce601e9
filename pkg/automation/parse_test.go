package automation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdhocOutput(t *testing.T) {
	tests := []struct {
		name  string
		out   string
		check func(t *testing.T, r *Result)
	}{
		{
			name: "plain text",
			out:  "  r1 | CHANGED | rc=0 >>\nhello\n",
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.Success)
				assert.Equal(t, "r1 | CHANGED | rc=0 >>\nhello", r.Stdout)
			},
		},
		{
			name: "command module",
			out:  `r1 | SUCCESS => {"changed": false, "stdout": ["a\nb", "c"], "stdout_lines": [["a", "b"], ["c"]]}`,
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.Success)
				assert.Equal(t, "a\nb\nc", r.Stdout)
				assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, r.StdoutLines)
				require.NotNil(t, r.Changed)
				assert.False(t, *r.Changed)
			},
		},
		{
			name: "flat stdout lines",
			out:  `r1 | SUCCESS => {"stdout": "x", "stdout_lines": ["x"]}`,
			check: func(t *testing.T, r *Result) {
				assert.Equal(t, "x", r.Stdout)
				assert.Equal(t, [][]string{{"x"}}, r.StdoutLines)
			},
		},
		{
			name: "config module",
			out:  `r1 | CHANGED => {"changed": true, "updates": ["hostname x"], "backup_path": "/b.cfg", "diff": {"before": "a", "after": "b"}}`,
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.Success)
				assert.True(t, r.IsChanged())
				assert.Equal(t, []string{"hostname x"}, r.Updates)
				assert.Equal(t, "/b.cfg", r.BackupPath)
				assert.Equal(t, &Diff{Before: "a", After: "b"}, r.Diff)
			},
		},
		{
			name: "unexpected shapes go to raw",
			out:  `r1 | SUCCESS => {"changed": "yes", "diff": [1], "ansible_facts": {"discovered_interpreter_python": "/usr/bin/python3"}}`,
			check: func(t *testing.T, r *Result) {
				assert.True(t, r.Success)
				assert.Nil(t, r.Changed)
				assert.Nil(t, r.Diff)
				assert.Nil(t, r.NetFacts)
				assert.Equal(t, "yes", r.Raw["changed"])
				assert.Equal(t, []any{float64(1)}, r.Raw["diff"])
				assert.Contains(t, r.Raw, "ansible_facts")
			},
		},
		{
			name: "unreachable",
			out:  `r1 | UNREACHABLE! => {"changed": false, "unreachable": true}`,
			check: func(t *testing.T, r *Result) {
				assert.False(t, r.Success)
				assert.Equal(t, "UNREACHABLE", r.Error)
				assert.Equal(t, true, r.Raw["unreachable"])
			},
		},
		{
			name: "unparsable payload",
			out:  "r1 | SUCCESS => {truncated",
			check: func(t *testing.T, r *Result) {
				assert.False(t, r.Success)
				assert.Contains(t, r.Error, "unparsable module output")
				assert.Equal(t, "r1 | SUCCESS => {truncated", r.Stdout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, parseAdhocOutput(tt.out))
		})
	}
}

func TestAdhocStatus(t *testing.T) {
	tests := map[string]string{
		"r1 | SUCCESS ":     "SUCCESS",
		"r1 | FAILED! ":     "FAILED",
		"r1 | UNREACHABLE!": "UNREACHABLE",
		"no separator":      "",
	}
	for header, want := range tests {
		if got := adhocStatus(header); got != want {
			t.Errorf("adhocStatus(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestIPv4Address_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    IPv4Address
		wantErr bool
	}{
		{"object", `{"address": "10.0.0.1", "subnet": "24"}`, IPv4Address{"10.0.0.1", "24"}, false},
		{"list", `[{"address": "10.0.0.1", "subnet": "24"}, {"address": "10.0.0.2", "subnet": "24"}]`, IPv4Address{"10.0.0.1", "24"}, false},
		{"empty list", `[]`, IPv4Address{}, false},
		{"scalar", `"10.0.0.1"`, IPv4Address{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got IPv4Address
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_JSONFieldNames(t *testing.T) {
	r := &Result{
		Success:    true,
		Changed:    boolPtr(false),
		BackupPath: "/tmp/x.cfg",
		NetFacts:   &NetFacts{Hostname: "r1", SerialNum: "S1"},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, true, m["success"])
	assert.Equal(t, false, m["changed"])
	assert.Equal(t, "/tmp/x.cfg", m["backup_path"])
	assert.NotContains(t, m, "error")
	nf := m["net_facts"].(map[string]any)
	assert.Equal(t, "r1", nf["net_hostname"])
	assert.Equal(t, "S1", nf["net_serialnum"])
}
