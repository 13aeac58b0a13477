package dictionary

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

// Build scans the environment period catalog and both series catalogs of
// an open file. Files without ReportDataDictionary are read through the
// legacy per-source catalog tables; a missing legacy table contributes no
// records.
func Build(ctx context.Context, s *store.Store, logger *slog.Logger) (*Dictionary, error) {
	if logger == nil {
		logger = s.Logger()
	}

	envs, err := scanEnvironments(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}

	modern, err := s.HasTable(ctx, "ReportDataDictionary")
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}

	var records []Record
	for _, src := range []querysql.Source{querysql.MeterSource, querysql.VariableSource} {
		if !modern {
			ok, err := s.HasTable(ctx, src.DictionaryTable())
			if err != nil {
				return nil, fmt.Errorf("build dictionary: %w", err)
			}
			if !ok {
				logger.Debug("catalog table missing", "table", src.DictionaryTable())
				continue
			}
		}
		recs, err := scanCatalog(ctx, s, src, !modern)
		if err != nil {
			return nil, fmt.Errorf("build dictionary: %s: %w", src, err)
		}
		records = append(records, recs...)
	}

	d := New(envs, records, logger)
	logger.Debug("dictionary built",
		"environments", len(d.envs),
		"records", len(records),
		"entries", d.Len(),
		"legacy", !modern,
	)
	return d, nil
}

func scanEnvironments(ctx context.Context, s *store.Store) ([]Environment, error) {
	st, err := s.Prepare(ctx, querysql.SelectEnvironments)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	envs := []Environment{}
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var (
			index int
			name  sql.NullString
			typ   sql.NullInt64
		)
		if err := rows.Scan(&index, &name, &typ); err != nil {
			return fmt.Errorf("scan environment: %w", err)
		}
		envs = append(envs, Environment{
			Index: index,
			Name:  name.String,
			Type:  ir.EnvironmentType(typ.Int64),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func scanCatalog(ctx context.Context, s *store.Store, src querysql.Source, legacy bool) ([]Record, error) {
	st, err := s.Prepare(ctx, querysql.Catalog(src, legacy))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	records := []Record{}
	err = st.Each(ctx, func(rows *sql.Rows) error {
		var (
			index                  int
			name, key, freq, units sql.NullString
		)
		if err := rows.Scan(&index, &name, &key, &freq, &units); err != nil {
			return fmt.Errorf("scan catalog row: %w", err)
		}
		records = append(records, Record{
			Source:    src,
			Index:     index,
			Name:      name.String,
			KeyValue:  key.String,
			Frequency: freq.String,
			Units:     units.String,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
