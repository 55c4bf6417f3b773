// Package preflight checks that the configured bucket can serve share
// uploads before any file is sent.
package preflight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/3leaps/sharelink/pkg/provider"
)

// Mode defines how aggressive preflight checks are.
type Mode string

const (
	ModePlanOnly   Mode = "plan-only"
	ModeReadSafe   Mode = "read-safe"
	ModeWriteProbe Mode = "write-probe"
)

// DefaultProbePrefix is where write-probe objects are created.
const DefaultProbePrefix = "_sharelink/probe/"

// Spec controls how preflight checks are executed.
type Spec struct {
	Mode        Mode
	ProbePrefix string
}

// Capability names are stable strings used in JSON output.
const (
	CapBucketAccess = "bucket.access"
	CapObjectWrite  = "object.write"
	CapObjectDelete = "object.delete"
)

// Error codes reported in CheckResult.ErrorCode.
const (
	ErrCodeAccessDenied = "ACCESS_DENIED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeThrottled    = "THROTTLED"
	ErrCodeUnreachable  = "UNREACHABLE"
	ErrCodeInternal     = "INTERNAL"
)

// ErrUnsupported indicates the target lacks a capability a check needs.
var ErrUnsupported = errors.New("operation not supported by provider")

// Record collects the results of one preflight run.
type Record struct {
	Mode        string        `json:"mode"`
	ProbePrefix string        `json:"probe_prefix,omitempty"`
	Results     []CheckResult `json:"results"`
}

// CheckResult is a single capability check result.
type CheckResult struct {
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
	Method     string `json:"method,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Allowed reports whether every recorded check passed.
func (r *Record) Allowed() bool {
	for _, res := range r.Results {
		if !res.Allowed {
			return false
		}
	}
	return true
}

// BucketChecker is the minimal target surface.
type BucketChecker interface {
	BucketExists(ctx context.Context) (bool, error)
}

// Run checks bucket access and, in write-probe mode, that objects can be
// created and removed. It stops at the first failed check.
func Run(ctx context.Context, target BucketChecker, spec Spec) (*Record, error) {
	rec := &Record{
		Mode:        string(spec.Mode),
		ProbePrefix: spec.ProbePrefix,
		Results:     []CheckResult{},
	}

	if spec.Mode == ModePlanOnly {
		return rec, nil
	}

	exists, err := target.BucketExists(ctx)
	if err == nil && !exists {
		err = provider.ErrBucketNotFound
	}
	if err != nil {
		rec.Results = append(rec.Results, CheckResult{
			Capability: CapBucketAccess,
			Allowed:    false,
			Method:     "HeadBucket",
			ErrorCode:  normalizeErrorCode(err),
			Detail:     err.Error(),
		})
		return rec, err
	}
	rec.Results = append(rec.Results, CheckResult{
		Capability: CapBucketAccess,
		Allowed:    true,
		Method:     "HeadBucket",
	})

	if spec.Mode != ModeWriteProbe {
		return rec, nil
	}

	probeRec, err := WriteProbe(ctx, target, spec)
	rec.Results = append(rec.Results, probeRec.Results...)
	return rec, err
}

// WriteProbe creates an empty object under the probe prefix and deletes it.
//
// target must implement provider.ObjectPutter and provider.ObjectDeleter.
func WriteProbe(ctx context.Context, target any, spec Spec) (*Record, error) {
	prefix := spec.ProbePrefix
	if prefix == "" {
		prefix = DefaultProbePrefix
	}
	rec := &Record{
		Mode:        string(ModeWriteProbe),
		ProbePrefix: prefix,
		Results:     []CheckResult{},
	}

	putter, okPut := target.(provider.ObjectPutter)
	deleter, okDel := target.(provider.ObjectDeleter)
	if !okPut || !okDel {
		rec.Results = append(rec.Results, CheckResult{
			Capability: CapObjectWrite,
			Allowed:    false,
			Method:     "PutObject+DeleteObject",
			ErrorCode:  ErrCodeInternal,
			Detail:     ErrUnsupported.Error(),
		})
		return rec, ErrUnsupported
	}

	key := joinPrefix(prefix, "write-"+uuid.NewString())

	if err := putter.PutObject(ctx, key, bytes.NewReader(nil), 0); err != nil {
		rec.Results = append(rec.Results, CheckResult{
			Capability: CapObjectWrite,
			Allowed:    false,
			Method:     "PutObject(empty)",
			ErrorCode:  normalizeErrorCode(err),
			Detail:     err.Error(),
		})
		return rec, err
	}
	rec.Results = append(rec.Results, CheckResult{
		Capability: CapObjectWrite,
		Allowed:    true,
		Method:     "PutObject(empty)",
	})

	if err := deleter.DeleteObject(ctx, key); err != nil {
		rec.Results = append(rec.Results, CheckResult{
			Capability: CapObjectDelete,
			Allowed:    false,
			Method:     "DeleteObject",
			ErrorCode:  normalizeErrorCode(err),
			Detail:     fmt.Sprintf("probe object %s left behind: %v", key, err),
		})
		return rec, err
	}
	rec.Results = append(rec.Results, CheckResult{
		Capability: CapObjectDelete,
		Allowed:    true,
		Method:     "DeleteObject",
	})

	return rec, nil
}

func normalizeErrorCode(err error) string {
	switch {
	case provider.IsAccessDenied(err), provider.IsInvalidCredentials(err):
		return ErrCodeAccessDenied
	case provider.IsBucketNotFound(err), provider.IsNotFound(err):
		return ErrCodeNotFound
	case provider.IsThrottled(err):
		return ErrCodeThrottled
	case provider.IsEndpointUnreachable(err):
		return ErrCodeUnreachable
	default:
		return ErrCodeInternal
	}
}

func joinPrefix(prefix, suffix string) string {
	if prefix == "" {
		return strings.TrimPrefix(suffix, "/")
	}
	if strings.HasSuffix(prefix, "/") {
		return prefix + strings.TrimPrefix(suffix, "/")
	}
	return prefix + "/" + strings.TrimPrefix(suffix, "/")
}
