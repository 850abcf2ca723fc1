// Package deploy creates or updates a CloudFormation stack from a built
// template.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// MaxTemplateBody is the largest template CloudFormation accepts inline.
const MaxTemplateBody = 51200

// DefaultTimeout bounds a wait when Request.Timeout is zero.
const DefaultTimeout = 30 * time.Minute

// Operations reported in Result.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationNone   = "none"
)

// CloudFormationAPI is the subset of the CloudFormation client used here.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	CreateStack(ctx context.Context, in *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, in *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	ValidateTemplate(ctx context.Context, in *cloudformation.ValidateTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ValidateTemplateOutput, error)
}

// CallerIdentityAPI is the subset of the STS client used here.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Deployer pushes templates to CloudFormation.
type Deployer struct {
	CFN    CloudFormationAPI
	STS    CallerIdentityAPI
	Logger zerolog.Logger
}

// Request describes one deployment.
type Request struct {
	StackName    string
	TemplateBody string
	Parameters   []types.Parameter
	Capabilities []types.Capability
	Tags         map[string]string
	// Wait blocks until the stack reaches a complete state.
	Wait    bool
	Timeout time.Duration
}

// Result is the outcome of Deploy.
type Result struct {
	Account   string
	StackID   string
	Operation string
	Status    types.StackStatus
}

// Deploy creates the stack if it does not exist and updates it otherwise.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	if req.StackName == "" {
		return nil, errors.New("stack name is required")
	}
	if len(req.TemplateBody) > MaxTemplateBody {
		return nil, fmt.Errorf("template is %d bytes; CloudFormation accepts at most %d inline", len(req.TemplateBody), MaxTemplateBody)
	}

	result := &Result{}

	if d.STS != nil {
		identity, err := d.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return nil, fmt.Errorf("getting caller identity: %w", err)
		}
		result.Account = aws.ToString(identity.Account)
	}

	log := d.Logger.With().Str("stack", req.StackName).Str("account", result.Account).Logger()

	existing, err := d.describe(ctx, req.StackName)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		log.Info().Msg("creating stack")
		out, err := d.CFN.CreateStack(ctx, &cloudformation.CreateStackInput{
			StackName:    aws.String(req.StackName),
			TemplateBody: aws.String(req.TemplateBody),
			Parameters:   req.Parameters,
			Capabilities: req.Capabilities,
			Tags:         tags(req.Tags),
		})
		if err != nil {
			return nil, fmt.Errorf("creating stack %s: %w", req.StackName, err)
		}
		result.Operation = OperationCreate
		result.StackID = aws.ToString(out.StackId)
	} else {
		log.Info().Str("status", string(existing.StackStatus)).Msg("updating stack")
		out, err := d.CFN.UpdateStack(ctx, &cloudformation.UpdateStackInput{
			StackName:    aws.String(req.StackName),
			TemplateBody: aws.String(req.TemplateBody),
			Parameters:   keepPrevious(req.Parameters, existing.Parameters, req.TemplateBody),
			Capabilities: req.Capabilities,
			Tags:         tags(req.Tags),
		})
		if isNoUpdates(err) {
			log.Info().Msg("stack is up to date")
			result.Operation = OperationNone
			result.StackID = aws.ToString(existing.StackId)
			result.Status = existing.StackStatus
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("updating stack %s: %w", req.StackName, err)
		}
		result.Operation = OperationUpdate
		result.StackID = aws.ToString(out.StackId)
	}

	if !req.Wait {
		return result, nil
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log.Info().Dur("timeout", timeout).Msgf("waiting for %s to complete", result.Operation)

	in := &cloudformation.DescribeStacksInput{StackName: aws.String(req.StackName)}
	var out *cloudformation.DescribeStacksOutput
	if result.Operation == OperationCreate {
		out, err = cloudformation.NewStackCreateCompleteWaiter(d.CFN).WaitForOutput(ctx, in, timeout)
	} else {
		out, err = cloudformation.NewStackUpdateCompleteWaiter(d.CFN).WaitForOutput(ctx, in, timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("waiting for stack %s: %w", req.StackName, err)
	}
	if out != nil && len(out.Stacks) > 0 {
		result.Status = out.Stacks[0].StackStatus
	}

	log.Info().Str("status", string(result.Status)).Msg("stack complete")
	return result, nil
}

// Remote is the result of server-side template validation.
type Remote struct {
	Description        string
	Parameters         []string
	Capabilities       []string
	CapabilitiesReason string
}

// ValidateRemote asks CloudFormation to validate a template body.
func (d *Deployer) ValidateRemote(ctx context.Context, body string) (*Remote, error) {
	out, err := d.CFN.ValidateTemplate(ctx, &cloudformation.ValidateTemplateInput{
		TemplateBody: aws.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("validating template: %w", err)
	}

	remote := &Remote{
		Description:        aws.ToString(out.Description),
		CapabilitiesReason: aws.ToString(out.CapabilitiesReason),
	}
	for _, p := range out.Parameters {
		remote.Parameters = append(remote.Parameters, aws.ToString(p.ParameterKey))
	}
	sort.Strings(remote.Parameters)
	for _, c := range out.Capabilities {
		remote.Capabilities = append(remote.Capabilities, string(c))
	}
	return remote, nil
}

// ParseParameters converts KEY=VALUE pairs into stack parameters. The
// value may be empty and may itself contain '='.
func ParseParameters(pairs []string) ([]types.Parameter, error) {
	seen := make(map[string]bool, len(pairs))
	params := make([]types.Parameter, 0, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected KEY=VALUE", pair)
		}
		if seen[key] {
			return nil, fmt.Errorf("parameter %s given more than once", key)
		}
		seen[key] = true
		params = append(params, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(value),
		})
	}
	return params, nil
}

// ParseCapabilities converts capability names, validating each one.
func ParseCapabilities(names []string) ([]types.Capability, error) {
	known := types.Capability("").Values()
	caps := make([]types.Capability, 0, len(names))
	for _, name := range names {
		c := types.Capability(name)
		if !slices.Contains(known, c) {
			return nil, fmt.Errorf("unknown capability %q", name)
		}
		caps = append(caps, c)
	}
	return caps, nil
}

// describe returns the stack, or nil when it does not exist.
func (d *Deployer) describe(ctx context.Context, name string) (*types.Stack, error) {
	out, err := d.CFN.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationError" && strings.Contains(apiErr.ErrorMessage(), "does not exist") {
			return nil, nil
		}
		return nil, fmt.Errorf("describing stack %s: %w", name, err)
	}
	for i := range out.Stacks {
		s := &out.Stacks[i]
		if s.StackStatus == types.StackStatusDeleteComplete {
			continue
		}
		return s, nil
	}
	return nil, nil
}

// keepPrevious adds UsePreviousValue for every parameter of the live stack
// the request does not set, so an update never resets values such as
// secrets or the deployed revision. Parameters the new template no longer
// declares are left out.
func keepPrevious(params []types.Parameter, live []types.Parameter, body string) []types.Parameter {
	declared := templateParameters(body)
	set := make(map[string]bool, len(params))
	for _, p := range params {
		set[aws.ToString(p.ParameterKey)] = true
	}

	result := slices.Clone(params)
	for _, p := range live {
		key := aws.ToString(p.ParameterKey)
		if set[key] {
			continue
		}
		if declared != nil && !declared[key] {
			continue
		}
		set[key] = true
		result = append(result, types.Parameter{
			ParameterKey:     aws.String(key),
			UsePreviousValue: aws.Bool(true),
		})
	}
	return result
}

// templateParameters returns the parameter names a JSON or YAML template
// declares, or nil when the body cannot be parsed.
func templateParameters(body string) map[string]bool {
	var doc struct {
		Parameters map[string]any `yaml:"Parameters"`
	}
	if err := yaml.Unmarshal([]byte(body), &doc); err != nil {
		return nil
	}
	names := make(map[string]bool, len(doc.Parameters))
	for name := range doc.Parameters {
		names[name] = true
	}
	return names
}

func isNoUpdates(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && strings.Contains(apiErr.ErrorMessage(), "No updates are to be performed")
}

func tags(m map[string]string) []types.Tag {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		result = append(result, types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return result
}
