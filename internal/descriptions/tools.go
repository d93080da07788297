package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Schedule tools
	ScheduleParseFileDescription = `Extract the class schedule from a certificate of registration PDF.

**When to use:** A student's registration or enrollment form is available as a PDF and you need its courses, sections, units and weekly meetings.

**Why it's useful:** Reads the course table between the "UNITS" header and the "TOTAL UNITS" footer, splits compound day codes (MWF, TTH), normalizes rooms, and merges lecture and lab rows of the same section.

**Examples:**
• Build a timetable: "Parse cor-2024-1st-sem.pdf and list my Monday classes"
• Check load: "How many units am I taking according to registration.pdf?"
• Find conflicts: "Parse both forms and tell me which meetings overlap"

**Common workflows:**
1. Parse → Review courses → Export with schedule_export_xlsx
2. Parse returns an error → pdf_read_text to inspect the text layer

**Best practices:** Rows that do not read as courses are skipped and listed in the report; check skipped_rows when a course is missing.`

	ScheduleParseTextDescription = `Parse registration text that was already extracted from a document.

**When to use:** The registration form text was copied from a portal, an email, or another extraction tool.

**Why it's useful:** Applies exactly the same normalization and course grammar as schedule_parse_file without needing the PDF.

**Examples:**
• "Parse this pasted enrollment summary into courses"
• "Re-run the parser on the text from pdf_read_text after trimming the page header"

**Best practices:** Include the table header ending in "UNITS" and the "TOTAL UNITS" footer; text without both markers is rejected.`

	ScheduleExportXLSXDescription = `Parse a registration PDF and save the schedule as an Excel workbook.

**When to use:** The user wants a spreadsheet of their classes.

**Why it's useful:** Produces a Courses sheet (one row per course section) and a Meetings sheet (one row per class meeting, in weekday order).

**Examples:**
• "Export my schedule from cor.pdf to a spreadsheet"
• "Save registration.pdf as term1.xlsx"

**Best practices:** The workbook is written to the configured export directory; the result gives its path.`

	// PDF tools
	PDFReadTextDescription = `Show the text layer of a PDF, page by page, plus the normalized text the schedule parser sees.

**When to use:** schedule_parse_file reports a missing table or skips rows you expected to be courses.

**Why it's useful:** Registration forms differ between schools; seeing the exact token stream explains why a row did not match.

**Examples:**
• "Why did CS101 not show up? Read the text of cor.pdf"
• "Does this PDF have any text at all, or is it scanned?"

**Best practices:** Compare the normalized text with the course row shape: code, name, section, meetings, units.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before parsing a PDF from an unknown source, or when parsing fails with an unreadable document error.

**Why it's useful:** Checks the extension, size, PDF header and cross-reference structure, and reports the problem in plain words.

**Examples:**
• Upload verification: "Check that the uploaded cor.pdf is a real PDF"
• Batch safety: "Validate every PDF in /forms/ before parsing them"

**Best practices:** A valid file can still lack a schedule table; validation says nothing about layout.`

	PDFInspectFileDescription = `Get structural details about a PDF: page count, version, encryption and document info.

**When to use:** Need to know how many pages a registration form has, whether it is encrypted, or which system produced it.

**Why it's useful:** The producer field often identifies the registrar system, which explains layout differences between forms.

**Examples:**
• "How many pages does cor.pdf have?"
• "Is registration.pdf password protected?"

**Best practices:** Encrypted files usually have no readable text layer.`

	// Discovery tools
	PDFSearchDirectoryDescription = `Find PDF files in a directory with fuzzy file name search.

**When to use:** Locate registration forms when the exact file name is unknown.

**Why it's useful:** Matches every query word against the words of each file name, so "cor 2024" finds "COR_2024-1st.pdf".

**Examples:**
• "Find all registration forms"
• "Search for files with 'enrollment' in the name"

**Best practices:** Leave the directory empty to search the configured directory.`

	ServerInfoDescription = `Get server capabilities, limits, usage guidance and the PDFs in the configured directory.

**When to use:** At the start of a session, or when a tool reports a path or size error.

**Why it's useful:** Shows the configured directory, maximum file size, whether results are cached, and which tools to call in which order.

**Best practices:** Call this first; it lists available documents without a separate search.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"schedule_parse_file":  ScheduleParseFileDescription,
	"schedule_parse_text":  ScheduleParseTextDescription,
	"schedule_export_xlsx": ScheduleExportXLSXDescription,
	"pdf_read_text":        PDFReadTextDescription,
	"pdf_validate_file":    PDFValidateFileDescription,
	"pdf_inspect_file":     PDFInspectFileDescription,
	"pdf_search_directory": PDFSearchDirectoryDescription,
	"server_info":          ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all described tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
