package automation

// Result is the outcome of one playbook or module invocation. Simulated and
// real runners both produce it. Callers decide on Success alone; the other
// fields are not reliable when Success is false.
type Result struct {
	Success     bool           `json:"success"`
	Changed     *bool          `json:"changed,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
	Msg         string         `json:"msg,omitempty"`
	Stdout      string         `json:"stdout,omitempty"`
	StdoutLines [][]string     `json:"stdout_lines,omitempty"`
	Diff        *Diff          `json:"diff,omitempty"`
	Facts       *DeviceFacts   `json:"facts,omitempty"`
	NetFacts    *NetFacts      `json:"net_facts,omitempty"`
	Updates     []string       `json:"updates,omitempty"`
	BackupPath  string         `json:"backup_path,omitempty"`
	PingStatus  *PingStatus    `json:"ping_status,omitempty"`
	DeviceInfo  [][]string     `json:"device_info,omitempty"`
	Raw         map[string]any `json:"raw,omitempty"`
}

// Diff is a before/after configuration pair.
type Diff struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// DeviceFacts is the facts block returned by the device status playbook.
type DeviceFacts struct {
	Hostname         string   `json:"hostname"`
	Version          string   `json:"version"`
	Uptime           string   `json:"uptime"`
	Serial           string   `json:"serial"`
	Model            string   `json:"model"`
	Interfaces       []string `json:"interfaces"`
	Status           []string `json:"status"`
	InterfacesDetail string   `json:"interfaces_detail"`
}

// NetFacts is the vendor-neutral facts block returned by *_facts modules.
type NetFacts struct {
	Hostname   string                  `json:"net_hostname"`
	Version    string                  `json:"net_version"`
	Model      string                  `json:"net_model"`
	SerialNum  string                  `json:"net_serialnum"`
	Interfaces map[string]NetInterface `json:"net_interfaces"`
}

// NetInterface describes one interface inside NetFacts.
type NetInterface struct {
	Bandwidth    int          `json:"bandwidth"`
	Description  string       `json:"description"`
	Duplex       string       `json:"duplex"`
	IPv4         *IPv4Address `json:"ipv4,omitempty"`
	LineProtocol string       `json:"lineprotocol"`
	OperStatus   string       `json:"operstatus"`
}

// IPv4Address is an interface address with its prefix length.
type IPv4Address struct {
	Address string `json:"address"`
	Subnet  string `json:"subnet"`
}

// PingStatus is the connectivity probe block of the demo playbook.
type PingStatus struct {
	Ping    string `json:"ping"`
	Success bool   `json:"success"`
}

// IsChanged reports the changed flag, treating an absent flag as false.
func (r *Result) IsChanged() bool {
	return r.Changed != nil && *r.Changed
}

func boolPtr(b bool) *bool {
	return &b
}

func failure(msg string) *Result {
	return &Result{Success: false, Error: msg}
}
