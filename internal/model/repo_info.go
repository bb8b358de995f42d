package model

import "slices"

// RepoInfo describes the project shown on the info page.
// Fields are unexported so a value cannot change once constructed; the
// feature list is copied on the way in and on the way out.
type RepoInfo struct {
	name        string
	description string
	framework   string
	language    string
	features    []string
}

// NewRepoInfo builds an immutable RepoInfo. Feature order is kept as given.
func NewRepoInfo(name, description, framework, language string, features ...string) RepoInfo {
	return RepoInfo{
		name:        name,
		description: description,
		framework:   framework,
		language:    language,
		features:    slices.Clone(features),
	}
}

func (r RepoInfo) Name() string        { return r.name }
func (r RepoInfo) Description() string { return r.description }
func (r RepoInfo) Framework() string   { return r.framework }
func (r RepoInfo) Language() string    { return r.language }

// Features returns a copy of the ordered feature list.
func (r RepoInfo) Features() []string { return slices.Clone(r.features) }

// Fixed values for this deployment.
const (
	ProjectName        = "20251106-GH300"
	ProjectDescription = "這是一個示範專案，展示如何使用 Python Flask 建立簡單的網站。"
	ProjectFramework   = "Flask"
	ProjectLanguage    = "Python 3.8+"
)

var projectFeatures = []string{
	"簡潔的專案結構",
	"易於擴展與維護",
	"包含基本的 HTML/CSS 前端",
	"支援多個頁面路由",
}

// DefaultRepoInfo returns a fresh record describing this deployment.
func DefaultRepoInfo() RepoInfo {
	return NewRepoInfo(ProjectName, ProjectDescription, ProjectFramework, ProjectLanguage, projectFeatures...)
}
