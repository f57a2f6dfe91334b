package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/noah-isme/share2teach-api/internal/models"
)

// params accumulates positional arguments and hands out their placeholders.
type params struct {
	args []interface{}
}

func (p *params) add(v interface{}) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

// documentClause renders one predicate of a search, or "" when the filter key is unset.
type documentClause func(f models.DocumentFilter, p *params) string

// documentClauses maps every supported filter key onto a parameterized predicate.
// Column references are fixed here; user input only ever reaches the argument list.
var documentClauses = map[string]documentClause{
	"file_name": func(f models.DocumentFilter, p *params) string {
		if f.FileName == "" {
			return ""
		}
		return `f.file_name ILIKE ` + p.add(likePattern(f.FileName))
	},
	"subject": func(f models.DocumentFilter, p *params) string {
		return referenceClause(f.Subject, "f.subject_id", "s.subject_name", p)
	},
	"grade": func(f models.DocumentFilter, p *params) string {
		return referenceClause(f.Grade, "f.grade_id", "g.grade_name", p)
	},
	"rating": func(f models.DocumentFilter, p *params) string {
		if f.MinRating == nil {
			return ""
		}
		return `f.rating >= ` + p.add(*f.MinRating)
	},
	"uploaded_by": func(f models.DocumentFilter, p *params) string {
		if f.UploadedBy == nil {
			return ""
		}
		return `f.uploaded_by = ` + p.add(*f.UploadedBy)
	},
	"status": func(f models.DocumentFilter, p *params) string {
		if f.Status == "" {
			return ""
		}
		return `f.status = ` + p.add(string(f.Status))
	},
	"keywords": func(f models.DocumentFilter, p *params) string {
		if len(f.Keywords) == 0 {
			return ""
		}
		patterns := make([]string, len(f.Keywords))
		for i, k := range f.Keywords {
			patterns[i] = likePattern(k)
		}
		return `f.file_id IN (SELECT fk.file_id FROM file_keywords fk JOIN keywords k ON k.keyword_id = fk.keyword_id WHERE k.keyword ILIKE ANY(` + p.add(pq.Array(patterns)) + `))`
	},
}

// clauseOrder keeps generated SQL stable so statements stay cacheable and testable.
var clauseOrder = []string{"file_name", "subject", "grade", "rating", "uploaded_by", "status", "keywords"}

// referenceClause matches a subject or grade either by id (numeric input) or by name.
func referenceClause(raw, idColumn, nameColumn string, p *params) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return idColumn + ` = ` + p.add(id)
	}
	return nameColumn + ` ILIKE ` + p.add(likeEscaper.Replace(raw))
}

// buildDocumentWhere renders the WHERE clause for f.
func buildDocumentWhere(f models.DocumentFilter) (string, []interface{}) {
	p := &params{}
	var conditions []string
	for _, key := range clauseOrder {
		if clause := documentClauses[key](f, p); clause != "" {
			conditions = append(conditions, clause)
		}
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), p.args
}
