package provider

import (
	"context"
	"log/slog"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/version"
)

// Fastlane delegates the whole bump to fastlane actions. The current version
// is never read locally.
type Fastlane struct {
	env Env
	cfg config.FastlaneConfig
}

// NewFastlane returns the fastlane provider.
func NewFastlane(env Env, cfg config.FastlaneConfig) *Fastlane {
	return &Fastlane{env: env, cfg: cfg}
}

// Name implements Provider.
func (p *Fastlane) Name() string { return "fastlane" }

// Bump implements Provider.
func (p *Fastlane) Bump(ctx context.Context, req Request) (Result, error) {
	res := Result{Provider: p.Name()}
	if err := req.validate(); err != nil {
		return res, err
	}
	if _, err := p.env.Runner.LookPath("fastlane"); err != nil {
		return res, err
	}

	args, next, err := p.args(req)
	if err != nil {
		return res, err
	}
	res.NewVersion = next
	res.Command = append([]string{"fastlane"}, args...)

	slog.Info("running fastlane", "args", args)
	if req.DryRun {
		return res, nil
	}
	return res, p.env.Runner.Run(ctx, "fastlane", args...)
}

func (p *Fastlane) args(req Request) ([]string, string, error) {
	args := []string{"run"}
	var next string

	if req.NewVersion != "" {
		v, err := version.Parse(req.NewVersion)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeArgument, "version is invalid", err)
		}
		next = v.String()
		args = append(args, "increment_version_number", "version_number:"+next)
	} else {
		in := *req.Instruction
		switch in.Component {
		case version.Major, version.Minor, version.Patch:
			if in.Mode != version.Increment {
				return nil, "", errors.Newf(errors.ErrCodeArgument,
					"fastlane cannot set the %s number directly; use --new-version", in.Component)
			}
			args = append(args, "increment_version_number", "bump_type:"+string(in.Component))
		case version.Build:
			args = append(args, "increment_build_number")
			if in.Mode == version.Set {
				if !version.IsIdentifier(in.Value) {
					return nil, "", errors.Newf(errors.ErrCodeArgument, "build value %q must match [0-9A-Za-z-]+", in.Value)
				}
				args = append(args, "build_number:"+in.Value)
			}
		default:
			return nil, "", errors.Newf(errors.ErrCodeArgument, "unknown bump type %q", in.Component)
		}
	}

	if p.cfg.Xcodeproj != "" {
		args = append(args, "xcodeproj:"+p.cfg.Xcodeproj)
	}
	return args, next, nil
}
