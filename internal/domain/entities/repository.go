package entities

import (
	"strings"
	"time"
)

const (
	SourceGitHub = "github"
	SourceGitLab = "gitlab"
)

// Repository is a version-controlled repository on a hosting source.
type Repository struct {
	ID            string     `json:"id"`
	Source        string     `json:"source"`
	URL           string     `json:"url"`
	Name          string     `json:"name"`
	Owner         string     `json:"owner"`
	ProjectID     string     `json:"projectId,omitempty"` // GitLab only
	Description   string     `json:"description,omitempty"`
	DefaultBranch string     `json:"defaultBranch,omitempty"`
	Archived      bool       `json:"archived"`
	ForkedFrom    string     `json:"forkedFrom,omitempty"`
	Stars         int        `json:"stars"`
	AvatarURL     string     `json:"avatarUrl,omitempty"`
	PubliccodeURL string     `json:"publiccodeUrl,omitempty"`
	Organisation  string     `json:"organisation,omitempty"`
	Component     string     `json:"component,omitempty"`
	LastSynced    *time.Time `json:"lastSynced,omitempty"`
}

func (r *Repository) ObjectKind() Kind      { return KindRepository }
func (r *Repository) ObjectID() string      { return r.ID }
func (r *Repository) SetObjectID(id string) { r.ID = id }
func (r *Repository) NaturalKey() string    { return r.URL }

func (r *Repository) SyncSource() (string, string) { return r.Source, r.URL }

// FullName returns "owner/name".
func (r *Repository) FullName() string {
	return strings.Trim(r.Owner+"/"+r.Name, "/")
}

// Merge copies the upstream-owned fields of fresh into r, keeping local references.
func (r *Repository) Merge(fresh Repository) {
	r.Source = fresh.Source
	r.URL = fresh.URL
	r.Name = fresh.Name
	r.Owner = fresh.Owner
	r.ProjectID = fresh.ProjectID
	r.Description = fresh.Description
	r.DefaultBranch = fresh.DefaultBranch
	r.Archived = fresh.Archived
	r.ForkedFrom = fresh.ForkedFrom
	r.Stars = fresh.Stars
	r.AvatarURL = fresh.AvatarURL
}

// Envelope tells the decoder how fetched bytes are wrapped.
type Envelope int

const (
	// EnvelopeNone is a plain body, as served by raw-content hosts.
	EnvelopeNone Envelope = iota
	// EnvelopeBase64 is a base64 body, as found in the content field of contents APIs.
	EnvelopeBase64
	// EnvelopeJSONContents is a full contents-API JSON object with a base64 content field.
	EnvelopeJSONContents
)

// RemoteFile is a file fetched from a source.
type RemoteFile struct {
	URL         string
	Path        string
	Ref         string
	Body        []byte
	Envelope    Envelope
	DownloadURL string
	BlobID      string // GitLab only
}

// SearchHit is a repository returned by a code search together with the matched path.
type SearchHit struct {
	Repository Repository
	Path       string
}
