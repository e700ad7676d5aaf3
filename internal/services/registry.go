package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/repositories"
)

const (
	OthersCategory = "others"
	megabyte       = 1024 * 1024
)

var wordFormats = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DefaultProfiles returns the built-in submission categories.
func DefaultProfiles() []models.SubmissionTypeProfile {
	return []models.SubmissionTypeProfile{
		{
			Key:                 "resume",
			Label:               "Resume",
			Description:         "Professional resume",
			AllowedFormats:      wordFormats,
			MaxSizeBytes:        5 * megabyte,
			NamingConvention:    "FirstName_LastName_Resume or Resume_FirstName_LastName",
			ContentExpectations: "Should contain: contact info, work experience, education, skills. Professional formatting with clear sections.",
		},
		{
			Key:                 "cv",
			Label:               "Curriculum Vitae",
			Description:         "Academic or detailed curriculum vitae",
			AllowedFormats:      wordFormats,
			MaxSizeBytes:        10 * megabyte,
			NamingConvention:    "FirstName_LastName_CV or CV_FirstName_LastName",
			ContentExpectations: "Should contain: detailed work history, publications, research, education, certifications. Academic formatting preferred.",
		},
		{
			Key:                 "cover_letter",
			Label:               "Cover Letter",
			Description:         "Letter accompanying a job application",
			AllowedFormats:      wordFormats,
			MaxSizeBytes:        2 * megabyte,
			NamingConvention:    "CoverLetter_CompanyName or FirstName_LastName_CoverLetter",
			ContentExpectations: "Should be addressed to specific company/role, express interest, highlight relevant experience, include call to action.",
		},
		{
			Key:                 "college_assignment",
			Label:               "College Assignment",
			Description:         "Academic assignments and homework",
			AllowedFormats:      append(append([]string{}, wordFormats...), "text/plain"),
			MaxSizeBytes:        25 * megabyte,
			NamingConvention:    "SubjectCode_AssignmentNumber_StudentID or StudentName_Assignment_Date",
			ContentExpectations: "Should include title page, student details, proper citations, bibliography if applicable.",
		},
		{
			Key:         "research_paper",
			Label:       "Research Paper",
			Description: "Academic research publications",
			AllowedFormats: []string{
				"application/pdf",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			},
			MaxSizeBytes:        50 * megabyte,
			NamingConvention:    "ResearchTitle_AuthorName or Paper_Topic_Date",
			ContentExpectations: "Should include abstract, introduction, methodology, results, discussion, conclusion, references. Follow academic formatting (APA, MLA, etc.).",
		},
		{
			Key:                 "thesis",
			Label:               "Thesis / Dissertation",
			Description:         "Academic research documents",
			AllowedFormats:      []string{"application/pdf"},
			MaxSizeBytes:        100 * megabyte,
			NamingConvention:    "Thesis_Title_AuthorName_Year",
			ContentExpectations: "Should include title page, abstract, acknowledgements, table of contents, chapters, bibliography, appendices.",
		},
		{
			Key:                 "project_report",
			Label:               "Project Report",
			Description:         "Project reports and documentation",
			AllowedFormats:      wordFormats,
			MaxSizeBytes:        50 * megabyte,
			NamingConvention:    "ProjectName_Report_Date or TeamName_ProjectReport",
			ContentExpectations: "Should include project overview, objectives, methodology, implementation details, results, conclusion.",
		},
		{
			Key:         "presentation",
			Label:       "Presentation",
			Description: "Slides and presentations",
			AllowedFormats: []string{
				"application/vnd.ms-powerpoint",
				"application/vnd.openxmlformats-officedocument.presentationml.presentation",
				"application/pdf",
			},
			MaxSizeBytes:        50 * megabyte,
			NamingConvention:    "Topic_Presentation or PresentationTitle_Author",
			ContentExpectations: "Should have clear slides, consistent formatting, visual aids, speaker notes if applicable.",
		},
		{
			Key:         "spreadsheet",
			Label:       "Spreadsheet",
			Description: "Data workbooks and exports",
			AllowedFormats: []string{
				"application/vnd.ms-excel",
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				"text/csv",
			},
			MaxSizeBytes:        25 * megabyte,
			NamingConvention:    "DataTitle_Date or FileName_Version",
			ContentExpectations: "Should have proper headers, organized data, formulas documentation if applicable.",
		},
		{
			Key:                 OthersCategory,
			Label:               "Others",
			Description:         "Custom submission type",
			AllowedFormats:      []string{},
			MaxSizeBytes:        50 * megabyte,
			NamingConvention:    "DescriptiveName_Date",
			ContentExpectations: "General document formatting and organization expected.",
		},
	}
}

// Registry is an immutable keyed set of submission type profiles.
type Registry struct {
	profiles map[string]models.SubmissionTypeProfile
	order    []string
}

// NewRegistry freezes profiles. Keys are matched case-insensitively and must
// be unique; an OthersCategory profile with an empty allow-list is mandatory.
func NewRegistry(profiles []models.SubmissionTypeProfile) (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]models.SubmissionTypeProfile, len(profiles)),
	}

	for _, p := range profiles {
		key := normalizeKey(p.Key)
		if key == "" {
			return nil, fmt.Errorf("submission type with empty key")
		}
		if _, exists := r.profiles[key]; exists {
			return nil, fmt.Errorf("duplicate submission type %q", key)
		}
		if p.MaxSizeBytes < 0 {
			return nil, fmt.Errorf("submission type %q has negative size ceiling", key)
		}
		p.Key = key
		p.AllowedFormats = cloneStrings(p.AllowedFormats)
		r.profiles[key] = p
		r.order = append(r.order, key)
	}

	others, ok := r.profiles[OthersCategory]
	if !ok {
		return nil, fmt.Errorf("registry requires an %q submission type", OthersCategory)
	}
	if len(others.AllowedFormats) > 0 {
		return nil, fmt.Errorf("submission type %q must accept every format", OthersCategory)
	}

	return r, nil
}

// MergeProfiles overlays overrides onto base by key, appending unknown keys.
func MergeProfiles(base, overrides []models.SubmissionTypeProfile) []models.SubmissionTypeProfile {
	merged := make([]models.SubmissionTypeProfile, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base))

	for _, p := range base {
		index[normalizeKey(p.Key)] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range overrides {
		if i, ok := index[normalizeKey(p.Key)]; ok {
			merged[i] = p
			continue
		}
		index[normalizeKey(p.Key)] = len(merged)
		merged = append(merged, p)
	}

	return merged
}

// Lookup never fails: unknown or empty categories resolve to OthersCategory.
func (r *Registry) Lookup(category string) models.SubmissionTypeProfile {
	p, ok := r.profiles[normalizeKey(category)]
	if !ok {
		p = r.profiles[OthersCategory]
	}
	p.AllowedFormats = cloneStrings(p.AllowedFormats)
	return p
}

func (r *Registry) Profiles() []models.SubmissionTypeProfile {
	out := make([]models.SubmissionTypeProfile, 0, len(r.order))
	for _, key := range r.order {
		p := r.profiles[key]
		p.AllowedFormats = cloneStrings(p.AllowedFormats)
		out = append(out, p)
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// LoadProfileOverrides reads the operator-edited submission types that
// replace or extend DefaultProfiles.
func LoadProfileOverrides(repo repositories.SubmissionTypeRepository) ([]models.SubmissionTypeProfile, error) {
	rows, err := repo.FindAll()
	if err != nil {
		return nil, err
	}

	profiles := make([]models.SubmissionTypeProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, rows[i].ToProfile())
	}
	return profiles, nil
}
