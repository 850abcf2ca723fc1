// Package cloudformation provides the AWS::CloudFormation::Init metadata
// consumed by cfn-init on instance boot.
//
//	cfnInit := cloudformation.Init{
//	    "config": {
//	        Commands: map[string]cloudformation.InitCommand{
//	            "register_cluster": {Command: registerCluster},
//	        },
//	    },
//	}
//	b.Resource("ContainerLaunchConfiguration", lc, template.WithMetadata(cfnInit.Metadata()))
package cloudformation

// InitKey is the metadata key cfn-init reads.
const InitKey = "AWS::CloudFormation::Init"

// Init maps config set names to their configuration. cfn-init runs the
// "config" entry by default.
type Init map[string]InitConfig

// Metadata returns the resource Metadata block holding the Init configuration.
func (i Init) Metadata() map[string]any {
	return map[string]any{InitKey: map[string]InitConfig(i)}
}

// InitConfig is one cfn-init config set.
type InitConfig struct {
	Packages map[string]map[string]any         `json:"packages,omitempty"`
	Commands map[string]InitCommand            `json:"commands,omitempty"`
	Files    map[string]InitFile               `json:"files,omitempty"`
	Services map[string]map[string]InitService `json:"services,omitempty"`
}

// InitCommand runs a shell command.
type InitCommand struct {
	Command      any            `json:"command,omitempty"`
	Cwd          any            `json:"cwd,omitempty"`
	Env          map[string]any `json:"env,omitempty"`
	Test         any            `json:"test,omitempty"`
	IgnoreErrors any            `json:"ignoreErrors,omitempty"`
}

// InitFile writes a file on the instance.
type InitFile struct {
	Content any `json:"content,omitempty"`
	Source  any `json:"source,omitempty"`
	Mode    any `json:"mode,omitempty"`
	Owner   any `json:"owner,omitempty"`
	Group   any `json:"group,omitempty"`
}

// InitService manages a sysvinit or systemd service.
type InitService struct {
	Enabled       any   `json:"enabled,omitempty"`
	EnsureRunning any   `json:"ensureRunning,omitempty"`
	Files         []any `json:"files,omitempty"`
}
