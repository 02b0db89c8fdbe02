// Package delphix is a thin typed client for the Delphix engine JSON API.
// It covers the environment, host, environment user and job resources.
package delphix

import "strings"

// Object type names used as JSON discriminators by the engine.
const (
	TypeUnixHostEnvironment          = "UnixHostEnvironment"
	TypeWindowsHostEnvironment       = "WindowsHostEnvironment"
	TypeWindowsCluster               = "WindowsCluster"
	TypeOracleCluster                = "OracleCluster"
	TypeUnixHost                     = "UnixHost"
	TypeWindowsHost                  = "WindowsHost"
	TypeUnixHostCreateParameters     = "UnixHostCreateParameters"
	TypeWindowsHostCreateParameters  = "WindowsHostCreateParameters"
	TypeHostEnvironmentCreateParams  = "HostEnvironmentCreateParameters"
	TypeEnvironmentUser              = "EnvironmentUser"
	TypePasswordCredential           = "PasswordCredential"
	TypeSystemKeyCredential          = "SystemKeyCredential"
	TypeASEHostEnvironmentParameters = "ASEHostEnvironmentParameters"
	TypeAPISession                   = "APISession"
	TypeAPIVersion                   = "APIVersion"
	TypeLoginRequest                 = "LoginRequest"
)

const (
	// DefaultWindowsConnectorPort is the port the Delphix connector listens on.
	DefaultWindowsConnectorPort = 9100

	// DefaultLoginTarget is the login target for engine administrators.
	DefaultLoginTarget = "DOMAIN"

	resultStatusOK    = "OK"
	resultStatusError = "ERROR"
	resultTypeError   = "ErrorResult"
)

// Job states reported by the engine.
const (
	JobRunning   = "RUNNING"
	JobSuspended = "SUSPENDED"
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
	JobCanceled  = "CANCELED"
)

// APIVersion is the API version negotiated when the session is created.
type APIVersion struct {
	Type  string `json:"type"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Micro int    `json:"micro"`
}

// DefaultAPIVersion matches the object model this client was written against.
var DefaultAPIVersion = APIVersion{Type: TypeAPIVersion, Major: 1, Minor: 10, Micro: 2}

// Environment is a registered host or host cluster.
type Environment struct {
	Type                         string                        `json:"type"`
	Reference                    string                        `json:"reference,omitempty"`
	Name                         string                        `json:"name,omitempty"`
	Description                  string                        `json:"description,omitempty"`
	Enabled                      bool                          `json:"enabled,omitempty"`
	PrimaryUser                  string                        `json:"primaryUser,omitempty"`
	Host                         string                        `json:"host,omitempty"`
	Proxy                        string                        `json:"proxy,omitempty"`
	ASEHostEnvironmentParameters *ASEHostEnvironmentParameters `json:"aseHostEnvironmentParameters,omitempty"`
}

// IsCluster reports whether the environment is a cluster, which has no
// single host.
func (e *Environment) IsCluster() bool {
	return e.Type == TypeWindowsCluster || e.Type == TypeOracleCluster
}

// IsWindows reports whether the environment is a standalone Windows host.
func (e *Environment) IsWindows() bool {
	return e.Type == TypeWindowsHostEnvironment
}

// Host is the machine behind a standalone environment.
type Host struct {
	Type          string `json:"type"`
	Reference     string `json:"reference,omitempty"`
	Name          string `json:"name,omitempty"`
	Address       string `json:"address,omitempty"`
	ToolkitPath   string `json:"toolkitPath,omitempty"`
	ConnectorPort int    `json:"connectorPort,omitempty"`
}

// IsWindows reports whether the host runs Windows.
func (h *Host) IsWindows() bool {
	return h.Type == TypeWindowsHost
}

// Credential is either a password or the engine's system SSH key.
type Credential struct {
	Type     string `json:"type"`
	Password string `json:"password,omitempty"`
}

// PasswordCredential returns a password-based credential.
func PasswordCredential(password string) *Credential {
	return &Credential{Type: TypePasswordCredential, Password: password}
}

// SystemKeyCredential returns a credential that uses the engine's SSH key.
func SystemKeyCredential() *Credential {
	return &Credential{Type: TypeSystemKeyCredential}
}

// EnvironmentUser is an OS account the engine uses on an environment.
type EnvironmentUser struct {
	Type        string      `json:"type"`
	Reference   string      `json:"reference,omitempty"`
	Name        string      `json:"name,omitempty"`
	Environment string      `json:"environment,omitempty"`
	Credential  *Credential `json:"credential,omitempty"`
}

// ASEHostEnvironmentParameters attaches SAP ASE settings to a Unix environment.
type ASEHostEnvironmentParameters struct {
	Type        string      `json:"type"`
	DBUser      string      `json:"dbUser,omitempty"`
	Credentials *Credential `json:"credentials,omitempty"`
}

// String renders the parameters without the password.
func (p *ASEHostEnvironmentParameters) String() string {
	if p == nil {
		return "Undefined"
	}
	cred := "none"
	if p.Credentials != nil {
		cred = p.Credentials.Type
	}
	return "dbUser=" + p.DBUser + " credentials=" + cred
}

// HostCreateParameters describes the host half of an environment create.
type HostCreateParameters struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Host *Host  `json:"host"`
}

// HostEnvironmentCreateParameters is the body of an environment create.
type HostEnvironmentCreateParameters struct {
	Type            string                `json:"type"`
	PrimaryUser     *EnvironmentUser      `json:"primaryUser"`
	HostEnvironment *Environment          `json:"hostEnvironment"`
	HostParameters  *HostCreateParameters `json:"hostParameters"`
}

// JobEvent is one entry in a job's event log.
type JobEvent struct {
	Type           string `json:"type"`
	Timestamp      string `json:"timestamp,omitempty"`
	State          string `json:"state,omitempty"`
	EventType      string `json:"eventType,omitempty"`
	MessageCode    string `json:"messageCode,omitempty"`
	MessageDetails string `json:"messageDetails,omitempty"`
	MessageAction  string `json:"messageAction,omitempty"`
}

// Job is the asynchronous handle returned by long-running operations.
type Job struct {
	Type            string     `json:"type"`
	Reference       string     `json:"reference"`
	ActionType      string     `json:"actionType,omitempty"`
	Target          string     `json:"target,omitempty"`
	TargetName      string     `json:"targetName,omitempty"`
	Title           string     `json:"title,omitempty"`
	JobState        string     `json:"jobState"`
	PercentComplete float64    `json:"percentComplete"`
	StartTime       string     `json:"startTime,omitempty"`
	UpdateTime      string     `json:"updateTime,omitempty"`
	Events          []JobEvent `json:"events,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (j *Job) Done() bool {
	switch j.JobState {
	case JobCompleted, JobFailed, JobCanceled:
		return true
	}
	return false
}

// Failed reports whether the job ended without completing.
func (j *Job) Failed() bool {
	return j.JobState == JobFailed || j.JobState == JobCanceled
}

// LastMessage returns the details of the most recent event that has any.
func (j *Job) LastMessage() string {
	for i := len(j.Events) - 1; i >= 0; i-- {
		if msg := strings.TrimSpace(j.Events[i].MessageDetails); msg != "" {
			return msg
		}
	}
	return ""
}
