// Package resources groups the typed CloudFormation resource packages, one
// per AWS service. Property fields use CloudFormation names; scalar fields
// are typed any so intrinsics, parameters and resource handles can stand in
// for literal values.
package resources
