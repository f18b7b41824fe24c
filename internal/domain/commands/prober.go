package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

const (
	publiccodeBasename   = "publiccode"
	opencatalogiBasename = "opencatalogi"
)

// Via selects how a candidate file is fetched.
type Via int

const (
	// ViaRaw fetches plain bytes from the raw content host at a branch.
	ViaRaw Via = iota
	// ViaAPI fetches the base64 envelope from the contents API.
	ViaAPI
)

func (v Via) String() string {
	if v == ViaAPI {
		return "api"
	}
	return "raw"
}

// Candidate is one (path, branch, transport) combination to probe.
type Candidate struct {
	Path   string
	Branch string
	Via    Via
}

// ProbeHit is the first candidate that returned content.
type ProbeHit struct {
	Candidate Candidate
	File      entities.RemoteFile
}

// fileExtensions are tried in this order for every branch.
var fileExtensions = []string{".yaml", ".yml"} //nolint:gochecknoglobals // read-only lookup

// fallbackBranches are tried after the repository's default branch.
var fallbackBranches = []string{"main", "master"} //nolint:gochecknoglobals // read-only lookup

// PubliccodeCandidates returns the canonical probe order for publiccode files.
// Known paths (e.g. from a code search) are tried first through the contents API.
func PubliccodeCandidates(repo entities.Repository, knownPaths ...string) []Candidate {
	return fileCandidates(repo, publiccodeBasename, knownPaths)
}

// OpenCatalogiCandidates returns the canonical probe order for opencatalogi files.
func OpenCatalogiCandidates(repo entities.Repository) []Candidate {
	return fileCandidates(repo, opencatalogiBasename, nil)
}

func fileCandidates(repo entities.Repository, basename string, knownPaths []string) []Candidate {
	var candidates []Candidate
	seen := make(map[Candidate]bool)
	add := func(c Candidate) {
		if c.Path == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	for _, path := range knownPaths {
		add(Candidate{Path: path, Via: ViaAPI})
	}

	branches := make([]string, 0, len(fallbackBranches)+1)
	if repo.DefaultBranch != "" {
		branches = append(branches, repo.DefaultBranch)
	}
	branches = append(branches, fallbackBranches...)

	for _, branch := range branches {
		for _, ext := range fileExtensions {
			add(Candidate{Path: basename + ext, Branch: branch, Via: ViaRaw})
		}
	}
	for _, ext := range fileExtensions {
		add(Candidate{Path: basename + ext, Via: ViaAPI})
	}

	return candidates
}

// Probe tries candidates in order and returns the first one that yields content.
// Failed attempts are misses; entities.ErrFileNotFound is returned when all miss.
func Probe(
	ctx context.Context,
	source repositories.SourceRepository,
	repo entities.Repository,
	candidates []Candidate,
) (ProbeHit, error) {
	for _, candidate := range candidates {
		logger.Debugf(
			"[%s] Probing %s for %s (branch %q, via %s)",
			source.Name(), repo.FullName(), candidate.Path, candidate.Branch, candidate.Via,
		)

		var (
			file entities.RemoteFile
			err  error
		)
		switch candidate.Via {
		case ViaAPI:
			file, err = source.GetFile(ctx, repo, candidate.Path, candidate.Branch)
		default:
			file, err = source.GetRawFile(ctx, repo, candidate.Branch, candidate.Path)
		}
		if err != nil {
			logger.Debugf("[%s] Miss on %s/%s: %v", source.Name(), repo.FullName(), candidate.Path, err)
			continue
		}
		if len(file.Body) == 0 {
			logger.Debugf("[%s] Empty file at %s/%s", source.Name(), repo.FullName(), candidate.Path)
			continue
		}

		return ProbeHit{Candidate: candidate, File: file}, nil
	}

	return ProbeHit{}, fmt.Errorf("%w in %s (%d candidates)", entities.ErrFileNotFound, repo.FullName(), len(candidates))
}
