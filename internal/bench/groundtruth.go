package bench

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// deptToDomain maps spreadsheet department names to the domain slugs used in
// transcript file keys. Departments not listed fall back to the lowercased
// name with '-' replaced by '_'.
var deptToDomain = map[string]string{
	"Grievance":  "grievance",
	"Helpdesk":   "helpdesk",
	"HR-Admin":   "hr_admin",
	"HR/Admin":   "hr_admin",
	"Impact":     "impact",
	"NextGen":    "nextgen",
	"Production": "production",
}

// DomainSlug converts a spreadsheet department name to a domain slug.
func DomainSlug(department string) string {
	if slug, ok := deptToDomain[department]; ok {
		return slug
	}
	return strings.ReplaceAll(strings.ToLower(department), "-", "_")
}

// LoadGroundTruth reads the source-of-truth workbook and returns
// {FileKey: human-reviewed text}. The first sheet is used. Headers are
// matched case-insensitively: "department" (or "dept"), "file name",
// "human reviewed". Rows with an empty file name or an empty review are
// skipped.
func LoadGroundTruth(path string) (map[FileKey]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench: open ground truth: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("bench: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("bench: ground truth sheet %q is empty", sheet)
	}

	deptIdx, fnameIdx, reviewIdx := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "department", "dept":
			if deptIdx < 0 {
				deptIdx = i
			}
		case "file name":
			fnameIdx = i
		case "human reviewed":
			reviewIdx = i
		}
	}
	if deptIdx < 0 || fnameIdx < 0 || reviewIdx < 0 {
		return nil, fmt.Errorf("bench: ground truth missing required columns (department/dept, file name, human reviewed), got %v", rows[0])
	}

	groundTruth := make(map[FileKey]string)
	for _, row := range rows[1:] {
		department := cellAt(row, deptIdx)
		filename := cellAt(row, fnameIdx)
		reviewed := cellAt(row, reviewIdx)
		if filename == "" || reviewed == "" {
			continue
		}
		groundTruth[NewFileKey(DomainSlug(department), filename)] = reviewed
	}
	return groundTruth, nil
}

// cellAt returns the trimmed cell value, tolerating the short rows excelize
// produces when trailing cells are empty.
func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
