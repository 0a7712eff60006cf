package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

const rosterSheet = "Students"

var (
	exportHeader = []interface{}{"ID", "Name", "Lab", "User ID", "Course IDs", "Courses"}
	importHeader = []string{"Name", "Lab", "User ID", "Course IDs"}
)

type importExportService struct {
	serviceBase
	students StudentService
}

func NewImportExportService(deps Dependencies, students StudentService) ImportExportService {
	return &importExportService{
		serviceBase: newServiceBase(deps, "import_export"),
		students:    students,
	}
}

// ExportStudents writes every student with its courses as an xlsx workbook.
func (s *importExportService) ExportStudents(ctx context.Context, w io.Writer) error {
	s.log(ctx).Info("Exporting students")

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log(ctx).Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	filters := s.page(models.Pagination{Limit: s.settings.MaxPageLimit})
	for {
		page, err := s.repo.Student().ListWithCourses(ctx, nil, filters)
		if err != nil {
			return fmt.Errorf("failed to list students: %w", err)
		}

		for _, st := range page {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := studentRow(st)
			if err := f.SetSheetRow(rosterSheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}

		if len(page) < filters.Limit {
			break
		}
		filters.Offset += filters.Limit
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.log(ctx).Info("Students exported", "count", row-2)
	return nil
}

func studentRow(st *models.Student) []interface{} {
	ids := make([]string, 0, len(st.Courses))
	titles := make([]string, 0, len(st.Courses))
	for _, c := range st.Courses {
		ids = append(ids, strconv.FormatUint(uint64(c.ID), 10))
		titles = append(titles, c.Title)
	}
	return []interface{}{st.ID, st.Name, st.Lab, st.UserID, strings.Join(ids, ","), strings.Join(titles, ", ")}
}

// ImportStudents reads the first sheet of an xlsx workbook and creates one
// student per data row, all in a single batch.
func (s *importExportService) ImportStudents(ctx context.Context, actorID uint, r io.Reader) ([]*models.Student, error) {
	s.log(ctx).Info("Importing students", "actor_id", actorID)

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.log(ctx).Warn("Failed to close workbook", "error", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidImport)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrInvalidImport, sheet)
	}

	columns, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var (
		reqs []CreateStudentRequest
		errs ValidationErrors
	)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		req, rowErrs := parseStudentRow(row, columns, i+2)
		errs = append(errs, rowErrs...)
		reqs = append(reqs, req)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %w", errs)
	}

	students, err := s.students.CreateStudents(ctx, actorID, models.Batch(reqs...))
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Students imported", "actor_id", actorID, "count", len(students))
	return students, nil
}

// headerColumns maps each expected header to its column index.
func headerColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(importHeader))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, want := range importHeader {
		if _, ok := columns[strings.ToLower(want)]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidImport, want)
		}
	}
	return columns, nil
}

func parseStudentRow(row []string, columns map[string]int, line int) (CreateStudentRequest, ValidationErrors) {
	cell := func(name string) string {
		idx := columns[strings.ToLower(name)]
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var errs ValidationErrors
	field := func(name string) string {
		return fmt.Sprintf("row[%d].%s", line, name)
	}

	req := CreateStudentRequest{
		Name: cell("Name"),
		Lab:  cell("Lab"),
	}

	userID, err := strconv.ParseUint(cell("User ID"), 10, 32)
	if err != nil {
		errs = append(errs, ValidationError{Field: field("user_id"), Message: "must be a positive number", Value: cell("User ID"), Rule: "number"})
	}
	req.UserID = uint(userID)

	if raw := cell("Course IDs"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				errs = append(errs, ValidationError{Field: field("course_id"), Message: "must be a comma separated list of numbers", Value: raw, Rule: "number"})
				break
			}
			req.CourseIDs = append(req.CourseIDs, uint(id))
		}
	}

	return req, errs
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
