package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-genetics/internal/sequence"
	"github.com/inodb/vibe-genetics/internal/traits"
)

// Seed installs the built-in organisms and trait specs into an empty
// catalog as a single version. Returns false if the catalog already had
// content.
func (s *Store) Seed() (bool, error) {
	v, err := s.Version()
	if err != nil {
		return false, err
	}
	if v > 0 {
		return false, nil
	}

	builtin := sequence.BuiltinOrganisms()
	orgs := make([]sequence.Organism, 0, len(builtin))
	for _, name := range builtin.Names() {
		orgs = append(orgs, builtin[name])
	}
	defaults := traits.DefaultSpecs()
	specs := make([]traits.Spec, 0, len(defaults))
	for _, name := range defaults.Names() {
		specs = append(specs, defaults[name])
	}
	if err := checkOrganisms(orgs); err != nil {
		return false, err
	}
	if err := checkTraits(specs); err != nil {
		return false, err
	}

	if _, err := s.update(func(ctx context.Context, conn *sql.Conn) error {
		if err := writeOrganisms(ctx, conn, orgs); err != nil {
			return err
		}
		return writeTraits(ctx, conn, specs)
	}); err != nil {
		return false, err
	}

	s.logger.Info("seeded catalog",
		zap.Int("organisms", len(orgs)),
		zap.Int("traits", len(specs)))
	return true, nil
}

// update runs write and a version bump in one transaction on a single
// connection, so the Appender shares the transaction. Returns the new
// catalog version.
func (s *Store) update(write func(ctx context.Context, conn *sql.Conn) error) (int64, error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	rollback := func(cause error) (int64, error) {
		if _, err := conn.ExecContext(ctx, "ROLLBACK"); err != nil {
			s.logger.Warn("catalog rollback failed", zap.Error(err))
		}
		return 0, cause
	}

	if err := write(ctx, conn); err != nil {
		return rollback(err)
	}
	v, err := bumpVersion(ctx, conn)
	if err != nil {
		return rollback(err)
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return rollback(fmt.Errorf("commit: %w", err))
	}
	return v, nil
}

// PutOrganisms inserts or replaces organism entries.
func (s *Store) PutOrganisms(orgs []sequence.Organism) error {
	_, err := s.putOrganisms(orgs)
	return err
}

func (s *Store) putOrganisms(orgs []sequence.Organism) (int64, error) {
	if err := checkOrganisms(orgs); err != nil {
		return 0, err
	}
	return s.update(func(ctx context.Context, conn *sql.Conn) error {
		return writeOrganisms(ctx, conn, orgs)
	})
}

func checkOrganisms(orgs []sequence.Organism) error {
	names := make(map[string]bool, len(orgs))
	for _, o := range orgs {
		if o.Name == "" || o.Name == sequence.OrganismCustom {
			return fmt.Errorf("organism name %q is reserved", o.Name)
		}
		if names[o.Name] {
			return fmt.Errorf("organism %s listed more than once", o.Name)
		}
		names[o.Name] = true
		if _, err := sequence.DeriveGenomeStatistics(o.Profile); err != nil {
			return fmt.Errorf("organism %s: %w", o.Name, err)
		}
	}
	return nil
}

func writeOrganisms(ctx context.Context, conn *sql.Conn, orgs []sequence.Organism) error {
	stmt, err := conn.PrepareContext(ctx, `INSERT OR REPLACE INTO organisms
		(name, genome_size, chromosomes, genes, gc_content, coding_percent)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare organism insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range orgs {
		p := o.Profile
		if _, err := stmt.ExecContext(ctx, o.Name, p.Size, int64(p.Chromosomes), int64(p.Genes), p.GCContent, o.CodingPercent); err != nil {
			return fmt.Errorf("insert organism %s: %w", o.Name, err)
		}
	}
	return nil
}

// Organisms returns every organism in the catalog.
func (s *Store) Organisms() (sequence.OrganismTable, error) {
	rows, err := s.db.Query(`SELECT name, genome_size, chromosomes, genes, gc_content, coding_percent
		FROM organisms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query organisms: %w", err)
	}
	defer rows.Close()

	table := make(sequence.OrganismTable)
	for rows.Next() {
		var (
			o                  sequence.Organism
			chromosomes, genes int64
		)
		if err := rows.Scan(&o.Name, &o.Profile.Size, &chromosomes, &genes, &o.Profile.GCContent, &o.CodingPercent); err != nil {
			return nil, fmt.Errorf("scan organism: %w", err)
		}
		o.Profile.Chromosomes = int(chromosomes)
		o.Profile.Genes = int(genes)
		table[o.Name] = o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organisms: %w", err)
	}
	return table, nil
}

// PutTraits replaces the dominance lists of the given traits. Either every
// list is replaced or the catalog is left as it was.
func (s *Store) PutTraits(specs []traits.Spec) error {
	_, err := s.putTraits(specs)
	return err
}

func (s *Store) putTraits(specs []traits.Spec) (int64, error) {
	if err := checkTraits(specs); err != nil {
		return 0, err
	}
	return s.update(func(ctx context.Context, conn *sql.Conn) error {
		return writeTraits(ctx, conn, specs)
	})
}

func checkTraits(specs []traits.Spec) error {
	names := make(map[string]bool, len(specs))
	for _, sp := range specs {
		if sp.Name == "" {
			return fmt.Errorf("trait with empty name")
		}
		if names[sp.Name] {
			return fmt.Errorf("trait %s listed more than once", sp.Name)
		}
		names[sp.Name] = true
		if len(sp.Values) == 0 {
			return fmt.Errorf("trait %s: empty dominance list", sp.Name)
		}
		seen := make(map[string]bool, len(sp.Values))
		for _, v := range sp.Values {
			if seen[v] {
				return fmt.Errorf("trait %s: duplicate value %q", sp.Name, v)
			}
			seen[v] = true
		}
	}
	return nil
}

// writeTraits clears each trait and bulk-inserts its dominance list with
// the Appender API on conn.
func writeTraits(ctx context.Context, conn *sql.Conn, specs []traits.Spec) error {
	for _, sp := range specs {
		if _, err := conn.ExecContext(ctx, `DELETE FROM trait_values WHERE trait = ?`, sp.Name); err != nil {
			return fmt.Errorf("clear trait %s: %w", sp.Name, err)
		}
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "trait_values")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, sp := range specs {
		for rank, v := range sp.Values {
			if err := appender.AppendRow(sp.Name, int64(rank), v); err != nil {
				return fmt.Errorf("append trait value: %w", err)
			}
		}
	}

	if err := appender.Flush(); err != nil {
		return fmt.Errorf("flush trait values: %w", err)
	}
	return nil
}

// Traits returns every trait spec in the catalog.
func (s *Store) Traits() (traits.Specs, error) {
	rows, err := s.db.Query(`SELECT trait, trait_value FROM trait_values ORDER BY trait, dominance_rank`)
	if err != nil {
		return nil, fmt.Errorf("query traits: %w", err)
	}
	defer rows.Close()

	specs := make(traits.Specs)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan trait value: %w", err)
		}
		sp := specs[name]
		sp.Name = name
		sp.Values = append(sp.Values, value)
		specs[name] = sp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traits: %w", err)
	}
	return specs, nil
}
