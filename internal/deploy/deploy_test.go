package deploy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCFN struct {
	stacks    map[string]types.Stack
	updateErr error

	created []*cloudformation.CreateStackInput
	updated []*cloudformation.UpdateStackInput
}

func newFakeCFN() *fakeCFN {
	return &fakeCFN{stacks: map[string]types.Stack{}}
}

func (f *fakeCFN) DescribeStacks(_ context.Context, in *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	name := aws.ToString(in.StackName)
	s, ok := f.stacks[name]
	if !ok {
		return nil, &smithy.GenericAPIError{
			Code:    "ValidationError",
			Message: "Stack with id " + name + " does not exist",
		}
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{s}}, nil
}

func (f *fakeCFN) CreateStack(_ context.Context, in *cloudformation.CreateStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error) {
	f.created = append(f.created, in)
	id := "arn:aws:cloudformation:us-east-1:123456789012:stack/" + aws.ToString(in.StackName) + "/1"
	f.stacks[aws.ToString(in.StackName)] = types.Stack{
		StackId:     aws.String(id),
		StackName:   in.StackName,
		StackStatus: types.StackStatusCreateComplete,
	}
	return &cloudformation.CreateStackOutput{StackId: aws.String(id)}, nil
}

func (f *fakeCFN) UpdateStack(_ context.Context, in *cloudformation.UpdateStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error) {
	f.updated = append(f.updated, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	s := f.stacks[aws.ToString(in.StackName)]
	s.StackStatus = types.StackStatusUpdateComplete
	f.stacks[aws.ToString(in.StackName)] = s
	return &cloudformation.UpdateStackOutput{StackId: s.StackId}, nil
}

func (f *fakeCFN) ValidateTemplate(_ context.Context, in *cloudformation.ValidateTemplateInput, _ ...func(*cloudformation.Options)) (*cloudformation.ValidateTemplateOutput, error) {
	if !strings.Contains(aws.ToString(in.TemplateBody), "Resources") {
		return nil, &smithy.GenericAPIError{Code: "ValidationError", Message: "Template format error"}
	}
	return &cloudformation.ValidateTemplateOutput{
		Description: aws.String("ECS application platform"),
		Parameters: []types.TemplateParameter{
			{ParameterKey: aws.String("WebAppRevision")},
			{ParameterKey: aws.String("DatabasePassword")},
		},
		Capabilities:       []types.Capability{types.CapabilityCapabilityIam},
		CapabilitiesReason: aws.String("The following resource(s) require capabilities: [AWS::IAM::Role]"),
	}, nil
}

type fakeSTS struct{ err error }

func (f fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String("123456789012")}, nil
}

func newDeployer(cfn *fakeCFN) *Deployer {
	return &Deployer{CFN: cfn, STS: fakeSTS{}, Logger: zerolog.Nop()}
}

const body = "Resources: {}"

func TestDeploy_Create(t *testing.T) {
	cfn := newFakeCFN()
	d := newDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{
		StackName:    "ecs-platform",
		TemplateBody: body,
		Capabilities: []types.Capability{types.CapabilityCapabilityIam},
		Tags:         map[string]string{"team": "web", "env": "prod"},
	})
	require.NoError(t, err)

	assert.Equal(t, OperationCreate, result.Operation)
	assert.Equal(t, "123456789012", result.Account)
	assert.Contains(t, result.StackID, "stack/ecs-platform/")

	require.Len(t, cfn.created, 1)
	assert.Empty(t, cfn.updated)
	in := cfn.created[0]
	assert.Equal(t, body, aws.ToString(in.TemplateBody))
	assert.Equal(t, []types.Capability{types.CapabilityCapabilityIam}, in.Capabilities)
	require.Len(t, in.Tags, 2)
	assert.Equal(t, "env", aws.ToString(in.Tags[0].Key))
	assert.Equal(t, "team", aws.ToString(in.Tags[1].Key))
}

func TestDeploy_Update(t *testing.T) {
	cfn := newFakeCFN()
	cfn.stacks["ecs-platform"] = types.Stack{
		StackId:     aws.String("stack-id"),
		StackName:   aws.String("ecs-platform"),
		StackStatus: types.StackStatusCreateComplete,
	}
	d := newDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "ecs-platform", TemplateBody: body})
	require.NoError(t, err)

	assert.Equal(t, OperationUpdate, result.Operation)
	assert.Equal(t, "stack-id", result.StackID)
	assert.Empty(t, cfn.created)
	require.Len(t, cfn.updated, 1)
}

func TestDeploy_NoUpdates(t *testing.T) {
	cfn := newFakeCFN()
	cfn.stacks["ecs-platform"] = types.Stack{
		StackId:     aws.String("stack-id"),
		StackStatus: types.StackStatusUpdateComplete,
	}
	cfn.updateErr = &smithy.GenericAPIError{Code: "ValidationError", Message: "No updates are to be performed."}
	d := newDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "ecs-platform", TemplateBody: body, Wait: true})
	require.NoError(t, err)

	assert.Equal(t, OperationNone, result.Operation)
	assert.Equal(t, "stack-id", result.StackID)
	assert.Equal(t, types.StackStatusUpdateComplete, result.Status)
}

func TestDeploy_UpdateError(t *testing.T) {
	cfn := newFakeCFN()
	cfn.stacks["ecs-platform"] = types.Stack{StackStatus: types.StackStatusCreateComplete}
	cfn.updateErr = &smithy.GenericAPIError{Code: "ValidationError", Message: "Parameters: [DatabasePassword] must have values"}
	d := newDeployer(cfn)

	_, err := d.Deploy(context.Background(), Request{StackName: "ecs-platform", TemplateBody: body})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating stack ecs-platform")
	assert.Contains(t, err.Error(), "must have values")
}

func TestDeploy_DeletedStackIsRecreated(t *testing.T) {
	cfn := newFakeCFN()
	cfn.stacks["ecs-platform"] = types.Stack{StackStatus: types.StackStatusDeleteComplete}
	d := newDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "ecs-platform", TemplateBody: body})
	require.NoError(t, err)
	assert.Equal(t, OperationCreate, result.Operation)
}

func TestDeploy_Wait(t *testing.T) {
	cfn := newFakeCFN()
	d := newDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{
		StackName:    "ecs-platform",
		TemplateBody: body,
		Wait:         true,
		Timeout:      time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, types.StackStatusCreateComplete, result.Status)

	result, err = d.Deploy(context.Background(), Request{
		StackName:    "ecs-platform",
		TemplateBody: body,
		Wait:         true,
		Timeout:      time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, OperationUpdate, result.Operation)
	assert.Equal(t, types.StackStatusUpdateComplete, result.Status)
}

func TestDeploy_RequestErrors(t *testing.T) {
	d := newDeployer(newFakeCFN())

	_, err := d.Deploy(context.Background(), Request{TemplateBody: body})
	assert.EqualError(t, err, "stack name is required")

	_, err = d.Deploy(context.Background(), Request{
		StackName:    "ecs-platform",
		TemplateBody: strings.Repeat("x", MaxTemplateBody+1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 51200")

	d.STS = fakeSTS{err: errors.New("expired token")}
	_, err = d.Deploy(context.Background(), Request{StackName: "ecs-platform", TemplateBody: body})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting caller identity")
}

func TestValidateRemote(t *testing.T) {
	d := newDeployer(newFakeCFN())

	remote, err := d.ValidateRemote(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, "ECS application platform", remote.Description)
	assert.Equal(t, []string{"DatabasePassword", "WebAppRevision"}, remote.Parameters)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, remote.Capabilities)
	assert.NotEmpty(t, remote.CapabilitiesReason)

	_, err = d.ValidateRemote(context.Background(), "not a template")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Template format error")
}

func TestParseParameters(t *testing.T) {
	params, err := ParseParameters([]string{"WebAppRevision=v1", "DatabasePassword=a=b", "DomainName="})
	require.NoError(t, err)
	require.Len(t, params, 3)
	assert.Equal(t, "WebAppRevision", aws.ToString(params[0].ParameterKey))
	assert.Equal(t, "v1", aws.ToString(params[0].ParameterValue))
	assert.Equal(t, "a=b", aws.ToString(params[1].ParameterValue))
	assert.Equal(t, "", aws.ToString(params[2].ParameterValue))

	for _, bad := range [][]string{{"novalue"}, {"=x"}, {"A=1", "A=2"}} {
		_, err := ParseParameters(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestParseCapabilities(t *testing.T) {
	caps, err := ParseCapabilities([]string{"CAPABILITY_IAM", "CAPABILITY_NAMED_IAM"})
	require.NoError(t, err)
	assert.Equal(t, []types.Capability{types.CapabilityCapabilityIam, types.CapabilityCapabilityNamedIam}, caps)

	_, err = ParseCapabilities([]string{"CAPABILITY_EVERYTHING"})
	assert.Error(t, err)
}

const platformBody = `Parameters:
  WebAppRevision:
    Type: String
    Default: ""
  SecretKey:
    Type: String
    NoEcho: true
  DatabasePassword:
    Type: String
    NoEcho: true
  DomainName:
    Type: String
Resources: {}
`

func TestDeploy_UpdateKeepsPreviousParameters(t *testing.T) {
	cfn := newFakeCFN()
	cfn.stacks["prod-platform"] = types.Stack{
		StackId:     aws.String("arn:aws:cloudformation:us-east-1:123456789012:stack/prod-platform/1"),
		StackName:   aws.String("prod-platform"),
		StackStatus: types.StackStatusCreateComplete,
		Parameters: []types.Parameter{
			{ParameterKey: aws.String("WebAppRevision"), ParameterValue: aws.String("v41")},
			{ParameterKey: aws.String("SecretKey"), ParameterValue: aws.String("****")},
			{ParameterKey: aws.String("DatabasePassword"), ParameterValue: aws.String("****")},
			{ParameterKey: aws.String("DomainName"), ParameterValue: aws.String("example.com")},
			{ParameterKey: aws.String("Retired"), ParameterValue: aws.String("x")},
		},
	}
	d := newDeployer(cfn)

	params, err := ParseParameters([]string{"WebAppRevision=v42"})
	require.NoError(t, err)

	result, err := d.Deploy(context.Background(), Request{
		StackName:    "prod-platform",
		TemplateBody: platformBody,
		Parameters:   params,
	})
	require.NoError(t, err)
	assert.Equal(t, OperationUpdate, result.Operation)

	require.Len(t, cfn.updated, 1)
	sent := map[string]types.Parameter{}
	for _, p := range cfn.updated[0].Parameters {
		sent[aws.ToString(p.ParameterKey)] = p
	}
	require.Len(t, sent, 4)
	assert.Equal(t, "v42", aws.ToString(sent["WebAppRevision"].ParameterValue))
	assert.Nil(t, sent["WebAppRevision"].UsePreviousValue)
	for _, key := range []string{"SecretKey", "DatabasePassword", "DomainName"} {
		assert.True(t, aws.ToBool(sent[key].UsePreviousValue), key)
		assert.Nil(t, sent[key].ParameterValue, key)
	}
	assert.NotContains(t, sent, "Retired")

	// A plain redeploy keeps the deployed revision.
	_, err = d.Deploy(context.Background(), Request{StackName: "prod-platform", TemplateBody: platformBody})
	require.NoError(t, err)
	require.Len(t, cfn.updated, 2)
	for _, p := range cfn.updated[1].Parameters {
		assert.True(t, aws.ToBool(p.UsePreviousValue), aws.ToString(p.ParameterKey))
	}
	assert.Len(t, cfn.updated[1].Parameters, 4)
}

func TestTemplateParameters(t *testing.T) {
	assert.Equal(t, map[string]bool{"WebAppRevision": true, "SecretKey": true, "DatabasePassword": true, "DomainName": true},
		templateParameters(platformBody))
	assert.Equal(t, map[string]bool{"MaxScale": true},
		templateParameters(`{"Parameters": {"MaxScale": {"Type": "Number"}}, "Resources": {}}`))
	assert.Empty(t, templateParameters(body))
	assert.Nil(t, templateParameters("Parameters: ["))
}
