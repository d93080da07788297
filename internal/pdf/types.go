package pdf

import (
	"github.com/a3tai/schedify/internal/cache"
	"github.com/a3tai/schedify/internal/schedule"
)

// ScheduleFileRequest represents a request to extract a schedule from a PDF on disk
type ScheduleFileRequest struct {
	Path string `json:"path"`
	// Refresh drops any cached result for the document and parses it again
	Refresh bool `json:"refresh,omitempty"`
}

// ScheduleResult is the outcome of one schedule extraction
type ScheduleResult struct {
	Path     string                   `json:"path,omitempty"`
	Pages    int                      `json:"pages"`
	ParseID  string                   `json:"parse_id"`
	Cached   bool                     `json:"cached"`
	Schedule *schedule.ParsedSchedule `json:"schedule"`
	Report   *schedule.Report         `json:"report,omitempty"`
}

// PageText is the text layer of a document in page order
type PageText struct {
	Pages [][]string
	// Failed lists the 1-based pages whose text could not be decoded
	Failed []int
}

// ReadTextRequest represents a request to dump the text layer of a PDF
type ReadTextRequest struct {
	Path string `json:"path"`
}

// ReadTextResult holds the raw page text and the normalized parser input
type ReadTextResult struct {
	Path        string   `json:"path"`
	Pages       int      `json:"pages"`
	Size        int64    `json:"size"`
	PageTexts   []string `json:"page_texts"`
	FailedPages []int    `json:"failed_pages,omitempty"`
	Text        string   `json:"text"`
}

// ValidateFileRequest represents a request to validate a PDF file
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult represents the result of validating a PDF file
type ValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// InspectFileRequest represents a request for structural details about a PDF
type InspectFileRequest struct {
	Path string `json:"path"`
}

// InspectFileResult holds structural and document-info details about a PDF
type InspectFileResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	Version      string `json:"version,omitempty"`
	Encrypted    bool   `json:"encrypted"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
	ModifiedDate string `json:"modified_date"`
}

// SearchDirectoryRequest represents a request to search for PDF files
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
}

// SearchDirectoryResult represents the result of a PDF search
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// FileInfo describes a PDF found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ToolInfo describes one tool the server exposes
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult describes the running server and how to use it
type ServerInfoResult struct {
	ServerName        string       `json:"server_name"`
	Version           string       `json:"version"`
	DefaultDirectory  string       `json:"default_directory"`
	MaxFileSize       int64        `json:"max_file_size"`
	CacheEnabled      bool         `json:"cache_enabled"`
	CacheStats        *cache.Stats `json:"cache_stats,omitempty"`
	AvailableTools    []ToolInfo   `json:"available_tools"`
	DirectoryContents []FileInfo   `json:"directory_contents"`
	UsageGuidance     string       `json:"usage_guidance"`
}
