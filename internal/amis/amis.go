// Package amis looks up the current ECS-optimized AMI for each region
// through the public SSM parameter AWS maintains.
package amis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"golang.org/x/sync/errgroup"

	"github.com/lex00/ecs-stack-go/intrinsics"
)

// RecommendedImageParameter holds the recommended ECS-optimized Amazon
// Linux 2 image ID in every region.
const RecommendedImageParameter = "/aws/service/ecs/optimized-ami/amazon-linux-2/recommended/image_id"

// maxConcurrent caps in-flight SSM requests.
const maxConcurrent = 8

// SSMAPI is the subset of the SSM client used here.
type SSMAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Lookup returns the recommended AMI ID per region. clientFor must
// return a client bound to the given region.
func Lookup(ctx context.Context, regions []string, clientFor func(region string) SSMAPI) (map[string]string, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("no regions given")
	}

	var mu sync.Mutex
	result := make(map[string]string, len(regions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for _, region := range dedupe(regions) {
		g.Go(func() error {
			out, err := clientFor(region).GetParameter(ctx, &ssm.GetParameterInput{
				Name: aws.String(RecommendedImageParameter),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", region, err)
			}
			if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
				return fmt.Errorf("%s: parameter %s has no value", region, RecommendedImageParameter)
			}

			mu.Lock()
			result[region] = aws.ToString(out.Parameter.Value)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Mapping converts looked-up AMIs into the ECSRegionMap shape.
func Mapping(images map[string]string) intrinsics.Mapping {
	m := make(intrinsics.Mapping, len(images))
	for region, ami := range images {
		m[region] = map[string]any{"AMI": ami}
	}
	return m
}

// ParseRegions splits a comma-separated region list.
func ParseRegions(s string) []string {
	var regions []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

func dedupe(regions []string) []string {
	seen := make(map[string]bool, len(regions))
	var out []string
	for _, r := range regions {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}
