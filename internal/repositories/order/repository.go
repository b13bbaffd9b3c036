package order

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

const (
	lastNamePrefixLen  = 4
	firstNamePrefixLen = 3
)

// CandidateCriteria narrows the broad candidate query. Empty fields are not
// filtered on. StartDate and EndDate are ISO dates and apply only together.
type CandidateCriteria struct {
	FirstName string
	LastName  string
	StartDate string
	EndDate   string
	Limit     int
}

// candidateRow is an order row with its line items aggregated.
type candidateRow struct {
	OrderID          string         `db:"order_id"`
	RecordNumber     string         `db:"filemaker_record_number"`
	PatientLastName  string         `db:"patient_last_name"`
	PatientFirstName string         `db:"patient_first_name"`
	PatientName      string         `db:"patient_name"`
	DOSList          sql.NullString `db:"dos_list"`
	CPTList          sql.NullString `db:"cpt_list"`
	DescriptionList  sql.NullString `db:"description_list"`
}

func (r candidateRow) toModel() models.Order {
	return models.Order{
		OrderID:          r.OrderID,
		RecordNumber:     r.RecordNumber,
		PatientLastName:  r.PatientLastName,
		PatientFirstName: r.PatientFirstName,
		PatientName:      r.PatientName,
		DatesOfService:   splitList(r.DOSList),
		ProcedureCodes:   splitList(r.CPTList),
		Descriptions:     splitList(r.DescriptionList),
	}
}

// Repository reads orders and their line items
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new order repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// FindCandidates runs the broad name/date query used ahead of fuzzy ranking.
// Names match on a short case-insensitive prefix anywhere in the stored name,
// so the result is a superset of the good matches.
func (r *Repository) FindCandidates(ctx context.Context, criteria CandidateCriteria) ([]models.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "order.Repository.FindCandidates")
	defer span.End()

	dialect := r.db.Dialect()
	sb := database.NewSelectBuilder(dialect.Flavor())
	sb.Select(
		"o.order_id",
		"COALESCE(o.filemaker_record_number, '') AS filemaker_record_number",
		"COALESCE(o.patient_last_name, '') AS patient_last_name",
		"COALESCE(o.patient_first_name, '') AS patient_first_name",
		"COALESCE(o.patient_name, '') AS patient_name",
		dialect.DistinctList("li.dos")+" AS dos_list",
		dialect.DistinctList("li.cpt")+" AS cpt_list",
		dialect.DistinctList("li.description")+" AS description_list",
	)
	sb.From("orders o")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "line_items li", "li.order_id = o.order_id")

	if criteria.LastName != "" {
		prefix := namePrefix(criteria.LastName, lastNamePrefixLen)
		sb.Where(sb.Or(
			dialect.CaseInsensitiveLike(sb, "o.patient_last_name", prefix+"%"),
			dialect.CaseInsensitiveLike(sb, "o.patient_last_name", "%"+prefix+"%"),
		))
	}
	if criteria.FirstName != "" {
		prefix := namePrefix(criteria.FirstName, firstNamePrefixLen)
		sb.Where(sb.Or(
			dialect.CaseInsensitiveLike(sb, "o.patient_first_name", prefix+"%"),
			dialect.CaseInsensitiveLike(sb, "o.patient_first_name", "%"+prefix+"%"),
		))
	}
	if criteria.StartDate != "" && criteria.EndDate != "" {
		sub := database.NewSelectBuilder(dialect.Flavor())
		sub.Select("1").From("line_items d")
		sub.Where(
			"d.order_id = o.order_id",
			sub.Between("d.dos", criteria.StartDate, criteria.EndDate),
		)
		sb.Where(sb.Exists(sub.SelectBuilder))
	}

	sb.GroupBy("o.order_id", "o.filemaker_record_number", "o.patient_last_name", "o.patient_first_name", "o.patient_name")
	sb.OrderBy("o.order_id")
	if criteria.Limit > 0 {
		sb.Limit(criteria.Limit)
	}

	query, args := sb.Build()
	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		tracing.Fail(span, err)
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find order candidates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find order candidates")
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"count": len(orders),
		"limit": criteria.Limit,
	}).Debug("Found order candidates")

	return orders, nil
}

// namePrefix keeps the first n runes of names longer than two runes.
func namePrefix(name string, n int) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) <= 2 || len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

// splitList splits an aggregated list column, dropping blanks and repeats.
func splitList(list sql.NullString) []string {
	if !list.Valid || list.String == "" {
		return []string{}
	}

	parts := ectolinq.Filter(ectolinq.Map(strings.Split(list.String, ","), strings.TrimSpace), func(p string) bool {
		return p != ""
	})
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if !ectolinq.Contains(values, p) {
			values = append(values, p)
		}
	}
	return values
}
