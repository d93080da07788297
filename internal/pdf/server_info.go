package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/a3tai/schedify/internal/cache"
	"github.com/a3tai/schedify/internal/descriptions"
)

const (
	infoCacheTTL  = 5 * time.Minute
	scanFileLimit = 100
	scanMaxDepth  = 5
	scanTimeLimit = 3 * time.Second
)

// dirSnapshot is one cached directory scan
type dirSnapshot struct {
	files   []FileInfo
	scanned time.Time
}

// serverInfo builds ServerInfoResult values. Directory listings are cached
// because clients call server_info at the start of every session.
type serverInfo struct {
	service *Service

	mu        sync.Mutex
	snapshots map[string]dirSnapshot
}

func newServerInfo(service *Service) *serverInfo {
	return &serverInfo{
		service:   service,
		snapshots: make(map[string]dirSnapshot),
	}
}

func (p *serverInfo) get(ctx context.Context, serverName, version string) (*ServerInfoResult, error) {
	dir := p.service.Directory()

	var stats *cache.Stats
	if st, ok := p.service.CacheStats(); ok {
		stats = &st
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       p.service.maxFileSize,
		CacheEnabled:      p.service.CacheEnabled(),
		CacheStats:        stats,
		AvailableTools:    availableTools(),
		DirectoryContents: p.listing(ctx, dir),
		UsageGuidance:     usageGuidance(p.service.maxFileSize),
	}, nil
}

// listing returns the PDFs under dir, from cache when fresh
func (p *serverInfo) listing(ctx context.Context, dir string) []FileInfo {
	p.mu.Lock()
	snap, ok := p.snapshots[dir]
	p.mu.Unlock()
	if ok && time.Since(snap.scanned) <= infoCacheTTL {
		return snap.files
	}

	scanCtx, cancel := context.WithTimeout(ctx, scanTimeLimit)
	defer cancel()

	files := []FileInfo{}
	scanDirectory(scanCtx, dir, 0, make(map[string]bool), &files)

	p.mu.Lock()
	p.snapshots[dir] = dirSnapshot{files: files, scanned: time.Now()}
	p.mu.Unlock()
	return files
}

// scanDirectory collects PDFs breadth-limited by depth, file count and ctx.
// Hidden entries and symlinks are skipped; visited guards against cycles.
func scanDirectory(ctx context.Context, path string, depth int, visited map[string]bool, files *[]FileInfo) {
	if ctx.Err() != nil || depth >= scanMaxDepth || len(*files) >= scanFileLimit {
		return
	}

	realPath, err := filepath.EvalSymlinks(path)
	if err != nil || visited[realPath] {
		return
	}
	visited[realPath] = true

	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil || len(*files) >= scanFileLimit {
			return
		}
		if strings.HasPrefix(entry.Name(), ".") || entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		entryPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			scanDirectory(ctx, entryPath, depth+1, visited, files)
			continue
		}
		if !hasPDFExtension(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		*files = append(*files, FileInfo{
			Path:         entryPath,
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
	}
}

func availableTools() []ToolInfo {
	pathParam := "path (required): Path to the PDF file (absolute, or relative to the configured directory)"
	refreshParam := "refresh (optional): Ignore and replace a cached result"
	return []ToolInfo{
		{
			Name:        "schedule_parse_file",
			Description: descriptions.GetToolDescription("schedule_parse_file"),
			Usage:       "Use this tool to turn a certificate of registration PDF into a list of courses and meetings.",
			Parameters:  pathParam + ", " + refreshParam,
		},
		{
			Name:        "schedule_parse_text",
			Description: descriptions.GetToolDescription("schedule_parse_text"),
			Usage:       "Use this tool when the registration text was already extracted or pasted.",
			Parameters:  "text (required): Text of the registration document",
		},
		{
			Name:        "schedule_export_xlsx",
			Description: descriptions.GetToolDescription("schedule_export_xlsx"),
			Usage:       "Use this tool to save a parsed schedule as a spreadsheet.",
			Parameters:  pathParam + ", " + refreshParam + ", name (optional): Base name of the workbook",
		},
		{
			Name:        "pdf_read_text",
			Description: descriptions.GetToolDescription("pdf_read_text"),
			Usage:       "Use this tool to see the text the parser receives when a schedule comes out empty.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_validate_file",
			Description: descriptions.GetToolDescription("pdf_validate_file"),
			Usage:       "Use this tool to check if a file is a valid PDF before attempting to parse it.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_inspect_file",
			Description: descriptions.GetToolDescription("pdf_inspect_file"),
			Usage:       "Use this tool to get page count, PDF version, encryption and document info.",
			Parameters:  pathParam,
		},
		{
			Name:        "pdf_search_directory",
			Description: descriptions.GetToolDescription("pdf_search_directory"),
			Usage:       "Use this tool to find registration PDFs by file name.",
			Parameters: "directory (optional): Directory to search (uses the configured directory if empty), " +
				"query (optional): Search query for fuzzy matching",
		},
		{
			Name:        "server_info",
			Description: descriptions.GetToolDescription("server_info"),
			Usage:       "Use this tool to get server capabilities and the PDFs in the configured directory.",
			Parameters:  "No parameters required",
		},
	}
}

func usageGuidance(maxFileSize int64) string {
	return fmt.Sprintf(`Schedify Usage Guide:

1. FIND DOCUMENTS:
   - Use 'server_info' or 'pdf_search_directory' to list registration PDFs

2. PARSE:
   - Use 'schedule_parse_file' on a certificate of registration
   - Use 'schedule_parse_text' if you only have the text

3. WHEN THE RESULT IS EMPTY:
   - Use 'pdf_validate_file' and 'pdf_inspect_file' to check the PDF itself
   - Use 'pdf_read_text' to see the normalized text; the course table must sit
     between a "UNITS" header and a "TOTAL UNITS" footer

4. EXPORT:
   - Use 'schedule_export_xlsx' for a workbook with Courses and Meetings sheets

IMPORTANT NOTES:
- Paths may be absolute or relative to the configured directory
- The server can handle files up to %dMB
- Scanned registration forms have no text layer and cannot be parsed`, maxFileSize/(1024*1024))
}
