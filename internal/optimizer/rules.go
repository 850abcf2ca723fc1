package optimizer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ecsstack "github.com/lex00/ecs-stack-go"
)

// resourceRules are keyed by CloudFormation resource type.
var resourceRules = map[string][]Rule{
	"AWS::S3::Bucket":                       s3BucketRules,
	"AWS::RDS::DBInstance":                  rdsInstanceRules,
	"AWS::Logs::LogGroup":                   logGroupRules,
	"AWS::EC2::SecurityGroup":               securityGroupRules,
	"AWS::ECR::Repository":                  ecrRepositoryRules,
	"AWS::ElasticLoadBalancingV2::Listener": listenerRules,
	"AWS::CloudFront::Distribution":         distributionRules,
	"AWS::ECS::Service":                     ecsServiceRules,
	"AWS::AutoScaling::AutoScalingGroup":    autoScalingGroupRules,
}

var s3BucketRules = []Rule{
	{
		ID:       "OPT-S3-001",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if _, ok := def.Properties["BucketEncryption"]; ok {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "high",
				Title:       "Enable bucket encryption",
				Description: "Server-side encryption protects data at rest.",
				Suggestion:  "Add BucketEncryption with SSE-S3 or SSE-KMS.",
			}
		},
	},
	{
		ID:       "OPT-S3-002",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			acl, _ := def.Properties["AccessControl"].(string)
			if !strings.HasPrefix(acl, "PublicRead") {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "medium",
				Title:       "Bucket is publicly readable",
				Description: fmt.Sprintf("AccessControl is %s, so objects can be fetched without going through the CDN.", acl),
				Suggestion:  "Serve objects through a CloudFront origin access identity and make the bucket private.",
			}
		},
	},
	{
		ID:       "OPT-S3-003",
		Category: CategoryReliability,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if _, ok := def.Properties["VersioningConfiguration"]; ok {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "low",
				Title:       "Enable versioning",
				Description: "Versioning allows recovery of overwritten or deleted objects.",
				Suggestion:  "Add VersioningConfiguration with Status Enabled.",
			}
		},
	},
}

var rdsInstanceRules = []Rule{
	{
		ID:       "OPT-RDS-001",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if isTrue(def.Properties["StorageEncrypted"]) {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "high",
				Title:       "Encrypt database storage",
				Description: "Unencrypted storage and snapshots expose data at rest.",
				Suggestion:  "Set StorageEncrypted to true. This requires replacing the instance.",
			}
		},
	},
	{
		ID:       "OPT-RDS-002",
		Category: CategoryReliability,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if isTrue(def.Properties["MultiAZ"]) {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "medium",
				Title:       "Single-AZ database",
				Description: "An availability zone outage takes the database down.",
				Suggestion:  "Set MultiAZ to true for production stacks.",
			}
		},
	},
	{
		ID:       "OPT-RDS-003",
		Category: CategoryReliability,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if def.DeletionPolicy == "Snapshot" || def.DeletionPolicy == "Retain" {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "high",
				Title:       "Database is deleted with the stack",
				Description: "Without a DeletionPolicy the data is lost when the stack or resource is removed.",
				Suggestion:  "Set DeletionPolicy to Snapshot or Retain.",
			}
		},
	},
	{
		ID:       "OPT-RDS-004",
		Category: CategoryCost,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			class, _ := def.Properties["DBInstanceClass"].(string)
			if !previousGeneration.MatchString(class) {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "low",
				Title:       "Previous-generation instance class",
				Description: fmt.Sprintf("%s is a previous-generation class.", class),
				Suggestion:  "Use a current burstable class such as db.t3 or db.t4g.",
			}
		},
	},
}

var logGroupRules = []Rule{
	{
		ID:       "OPT-LOGS-001",
		Category: CategoryCost,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if _, ok := def.Properties["RetentionInDays"]; ok {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "medium",
				Title:       "Logs are kept forever",
				Description: "Log groups without a retention period grow without bound.",
				Suggestion:  "Set RetentionInDays.",
			}
		},
	},
}

var securityGroupRules = []Rule{
	{
		ID:       "OPT-SG-001",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			rules, _ := def.Properties["SecurityGroupIngress"].([]any)
			var open []string
			for _, r := range rules {
				rule, ok := r.(map[string]any)
				if !ok || rule["CidrIp"] != "0.0.0.0/0" {
					continue
				}
				port, ok := number(rule["FromPort"])
				if ok && (port == 80 || port == 443) {
					continue
				}
				open = append(open, fmt.Sprint(rule["FromPort"]))
			}
			if len(open) == 0 {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "high",
				Title:       "Port open to the internet",
				Description: fmt.Sprintf("Ingress from 0.0.0.0/0 on port %s.", strings.Join(open, ", ")),
				Suggestion:  "Restrict the source to the load balancer or VPC subnets.",
			}
		},
	},
}

var ecrRepositoryRules = []Rule{
	{
		ID:       "OPT-ECR-001",
		Category: CategoryCost,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if _, ok := def.Properties["LifecyclePolicy"]; ok {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "low",
				Title:       "Images are never expired",
				Description: "Every pushed image is stored until deleted by hand.",
				Suggestion:  "Add a LifecyclePolicy that expires untagged images.",
			}
		},
	},
}

var listenerRules = []Rule{
	{
		ID:       "OPT-ELB-001",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if def.Properties["Protocol"] != "HTTPS" {
				return &ecsstack.OptimizeSuggestion{
					Resource:    name,
					Severity:    "medium",
					Title:       "Listener is not HTTPS",
					Description: "Traffic between clients and the load balancer is unencrypted.",
					Suggestion:  "Use Protocol HTTPS with an ACM certificate.",
				}
			}
			if _, ok := def.Properties["SslPolicy"]; ok {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "low",
				Title:       "Default TLS policy",
				Description: "The default policy allows older TLS versions.",
				Suggestion:  "Set SslPolicy to a TLS 1.2+ policy such as ELBSecurityPolicy-TLS13-1-2-2021-06.",
			}
		},
	},
}

var distributionRules = []Rule{
	{
		ID:       "OPT-CF-001",
		Category: CategorySecurity,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			policy := lookup(def.Properties, "DistributionConfig", "DefaultCacheBehavior", "ViewerProtocolPolicy")
			if policy != "allow-all" {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "medium",
				Title:       "CDN serves plain HTTP",
				Description: "ViewerProtocolPolicy allow-all lets assets load over HTTP.",
				Suggestion:  "Set ViewerProtocolPolicy to redirect-to-https.",
			}
		},
	},
}

var ecsServiceRules = []Rule{
	{
		ID:       "OPT-ECS-001",
		Category: CategoryReliability,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			pct, ok := number(lookup(def.Properties, "DeploymentConfiguration", "MinimumHealthyPercent"))
			if !ok || pct >= 50 {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "low",
				Title:       "Low minimum healthy percent",
				Description: fmt.Sprintf("Deployments may drop to %g%% of desired tasks.", pct),
				Suggestion:  "Raise MinimumHealthyPercent or add container instance headroom.",
			}
		},
	},
}

var autoScalingGroupRules = []Rule{
	{
		ID:       "OPT-ASG-001",
		Category: CategoryPerformance,
		Check: func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion {
			if _, ok := def.Properties["VPCZoneIdentifier"]; !ok {
				return nil
			}
			subnets, _ := def.Properties["VPCZoneIdentifier"].([]any)
			if len(subnets) >= 2 {
				return nil
			}
			return &ecsstack.OptimizeSuggestion{
				Resource:    name,
				Severity:    "medium",
				Title:       "Instances in a single subnet",
				Description: "All container instances share one availability zone.",
				Suggestion:  "List a subnet from each availability zone in VPCZoneIdentifier.",
			}
		},
	},
}

// templateRules inspect more than one resource.
var templateRules = []TemplateRule{
	{
		ID:       "OPT-PARAM-001",
		Category: CategorySecurity,
		Check: func(tmpl *ecsstack.Template) []ecsstack.OptimizeSuggestion {
			var names []string
			for name, p := range tmpl.Parameters {
				if secretName.MatchString(name) && !p.NoEcho {
					names = append(names, name)
				}
			}
			sort.Strings(names)

			var out []ecsstack.OptimizeSuggestion
			for _, name := range names {
				out = append(out, ecsstack.OptimizeSuggestion{
					Resource:    name,
					Severity:    "high",
					Title:       "Secret parameter is echoed",
					Description: "The value is shown in the console and API responses.",
					Suggestion:  "Set NoEcho on the parameter.",
				})
			}
			return out
		},
	},
}

var (
	previousGeneration = regexp.MustCompile(`^(db\.)?(t2|m3|m4|r3|r4)\.`)
	secretName         = regexp.MustCompile(`(?i)(password|secret|token)`)
)

// lookup walks nested property maps.
func lookup(props map[string]any, path ...string) any {
	var cur any = props
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func isTrue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	}
	return false
}

// number reads a literal number from a built or parsed template.
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	}
	return 0, false
}
