package entity_repo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentboard/internal/core/apperror"
	"talentboard/internal/core/entity"
	"talentboard/internal/core/id"
	"talentboard/internal/domain"
	"talentboard/internal/domain/filter"
)

type application struct {
	entity.Base
	entity.SoftDeletable
	Status         string           `db:"status" json:"status"`
	CoverLetter    string           `db:"cover_letter" json:"coverLetter"`
	ExpectedSalary *decimal.Decimal `db:"expected_salary" json:"expectedSalary"`
}

type plain struct {
	entity.Base
	Name string `db:"name" json:"name"`
}

const applicationCols = "id, created_at, updated_at, is_deleted, status, cover_letter, expected_salary"

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newApplicationRepo(t *testing.T) *SoftDeleting[application, id.ID] {
	t.Helper()
	repo, err := NewSoftDeleting[application, id.ID](nil, Options[id.ID]{
		Entity: "jobApplication",
		Table:  "job_applications",
		NewID:  id.New,
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return repo
}

func TestNew_Validation(t *testing.T) {
	_, err := New[plain, id.ID](nil, Options[id.ID]{})
	assert.Error(t, err, "table is required")

	_, err = New[plain, id.ID](nil, Options[id.ID]{Table: "plain", IDField: "code"})
	assert.Error(t, err, "id field without column")

	_, err = NewSoftDeleting[plain, id.ID](nil, Options[id.ID]{Table: "plain"})
	assert.Error(t, err, "soft delete without is_deleted column")
}

func TestFindManyQuery(t *testing.T) {
	repo := newApplicationRepo(t)

	tests := []struct {
		name     string
		p        filter.Predicate
		sort     []filter.SortKey
		offset   int
		limit    int
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no predicate",
			sort:    []filter.SortKey{{Field: "id", Direction: filter.Asc}},
			limit:   20,
			wantSQL: "SELECT " + applicationCols + ` FROM job_applications ORDER BY "id" ASC LIMIT 20`,
		},
		{
			name: "equals and in",
			p: filter.NewPredicate(
				filter.Condition{Field: "isDeleted", Operator: filter.Equals, Value: false},
				filter.Condition{Field: "status", Operator: filter.In, Value: []any{"applied", "offered"}},
			),
			sort:     []filter.SortKey{{Field: "createdAt", Direction: filter.Desc}, {Field: "id", Direction: filter.Asc}},
			offset:   40,
			limit:    20,
			wantSQL:  "SELECT " + applicationCols + ` FROM job_applications WHERE (is_deleted = $1 AND status IN ($2,$3)) ORDER BY "created_at" DESC, "id" ASC LIMIT 20 OFFSET 40`,
			wantArgs: []any{false, "applied", "offered"},
		},
		{
			name: "range",
			p: filter.NewPredicate(filter.Condition{Field: "expectedSalary", Operator: filter.Range, Value: filter.Bounds{
				From: decimal.NewFromInt(1000), To: decimal.NewFromInt(2000),
			}}),
			wantSQL:  "SELECT " + applicationCols + " FROM job_applications WHERE ((expected_salary >= $1 AND expected_salary <= $2))",
			wantArgs: []any{decimal.NewFromInt(1000), decimal.NewFromInt(2000)},
		},
		{
			name: "open range",
			p: filter.NewPredicate(filter.Condition{Field: "expectedSalary", Operator: filter.Range, Value: filter.Bounds{
				To: decimal.NewFromInt(2000),
			}}),
			wantSQL:  "SELECT " + applicationCols + " FROM job_applications WHERE ((expected_salary <= $1))",
			wantArgs: []any{decimal.NewFromInt(2000)},
		},
		{
			name:     "contains escapes like metacharacters",
			p:        filter.NewPredicate(filter.Condition{Field: "coverLetter", Operator: filter.Contains, Value: `100%_sure\`}),
			wantSQL:  "SELECT " + applicationCols + " FROM job_applications WHERE (cover_letter ILIKE $1)",
			wantArgs: []any{`%100\%\_sure\\%`},
		},
		{
			name: "comparisons",
			p: filter.NewPredicate(
				filter.Condition{Field: "createdAt", Operator: filter.GreaterThan, Value: fixedNow},
				filter.Condition{Field: "createdAt", Operator: filter.LessOrEqual, Value: fixedNow},
			),
			wantSQL:  "SELECT " + applicationCols + " FROM job_applications WHERE (created_at > $1 AND created_at <= $2)",
			wantArgs: []any{fixedNow, fixedNow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := repo.findManyQuery(tt.p, tt.sort, tt.offset, tt.limit)
			require.NoError(t, err)

			sql, args, err := q.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestFindManyQuery_UnmappedField(t *testing.T) {
	repo := newApplicationRepo(t)

	_, err := repo.findManyQuery(filter.NewPredicate(filter.Condition{Field: "salary", Operator: filter.Equals, Value: "1"}), nil, 0, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))

	_, err = repo.findManyQuery(filter.Predicate{}, []filter.SortKey{{Field: "salary"}}, 0, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInternal))
}

func TestCountQuery(t *testing.T) {
	repo := newApplicationRepo(t)

	q, err := repo.countQuery(filter.NewPredicate(filter.Condition{Field: "status", Operator: filter.Equals, Value: "applied"}))
	require.NoError(t, err)
	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM job_applications WHERE (status = $1)", sql)
	assert.Equal(t, []any{"applied"}, args)

	q, err = repo.countQuery(filter.Predicate{})
	require.NoError(t, err)
	sql, _, err = q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM job_applications", sql)
}

func TestInsertQuery_FillsIDAndTimestamps(t *testing.T) {
	repo := newApplicationRepo(t)

	q, err := repo.insertQuery(application{Status: "applied"})
	require.NoError(t, err)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO job_applications (cover_letter,created_at,expected_salary,id,is_deleted,status,updated_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING "+applicationCols,
		sql)
	require.Len(t, args, 7)
	assert.Equal(t, fixedNow, args[1])
	assert.Nil(t, args[2])
	generated, ok := args[3].(id.ID)
	require.True(t, ok)
	assert.False(t, id.IsNil(generated))
	assert.Equal(t, fixedNow, args[6])

	// a supplied id and creation time are kept
	existing := entity.NewBase()
	existing.CreatedAt = fixedNow.Add(-time.Hour)
	q, err = repo.insertQuery(application{Base: existing, Status: "applied"})
	require.NoError(t, err)
	_, args, err = q.ToSql()
	require.NoError(t, err)
	assert.Equal(t, existing.CreatedAt, args[1])
	assert.Equal(t, existing.ID, args[3])
}

func TestInsertQuery_RequiresIDWithoutGenerator(t *testing.T) {
	repo, err := New[plain, id.ID](nil, Options[id.ID]{Table: "plain"})
	require.NoError(t, err)

	_, err = repo.insertQuery(plain{Name: "x"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestUpdateQuery(t *testing.T) {
	repo := newApplicationRepo(t)
	target := id.New()

	q, err := repo.updateQuery(target, domain.Patch{"status": "offered", "coverLetter": "Hello"})
	require.NoError(t, err)
	sql, args, err := q.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE job_applications SET cover_letter = $1, status = $2, updated_at = $3 "+
			"WHERE (id = $4 AND is_deleted = $5) RETURNING "+applicationCols,
		sql)
	assert.Equal(t, []any{"Hello", "offered", fixedNow, target, false}, args)

	tests := map[string]domain.Patch{
		"empty":        {},
		"unknown":      {"salary": 1},
		"immutable id": {"id": id.New().String()},
		"soft delete":  {"isDeleted": true},
		"created at":   {"createdAt": fixedNow},
	}
	for name, patch := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := repo.updateQuery(target, patch)
			assert.True(t, apperror.IsCallerError(err))
		})
	}
}

func TestByID_PlainRepoIgnoresSoftDelete(t *testing.T) {
	repo, err := New[plain, id.ID](nil, Options[id.ID]{Table: "plain", NewID: id.New})
	require.NoError(t, err)
	target := id.New()

	sql, args, err := repo.baseSelect().Where(repo.byID(target)).Limit(1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, created_at, updated_at, name FROM plain WHERE id = $1 LIMIT 1", sql)
	assert.Equal(t, []any{target}, args)
}

func TestPatchValue(t *testing.T) {
	assert.Equal(t, "x", patchValue("x"))
	assert.Equal(t, `{"a":1}`, patchValue(map[string]any{"a": 1}))
	assert.Nil(t, patchValue(nil))
}
