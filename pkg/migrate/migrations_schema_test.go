package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjunmehra/eventloft-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE bookings",
		"CHECK (status IN ('pending', 'confirmed', 'completed', 'rejected', 'cancelled'))",
		"CHECK (payment_status IN ('pending', 'paid', 'failed'))",
		"CHECK (guest_count >= 1)",
		"CREATE UNIQUE INDEX idx_bookings_payment_id ON bookings (payment_id) WHERE payment_id IS NOT NULL",
		"DROP TABLE IF EXISTS bookings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
