package persistence_test

import (
	"fieldflow/persistence"
	"os"
	"testing"

	. "github.com/onsi/gomega"
)

func TestEnsureFoundRows(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should append clientFoundRows to the DSN", func(t *testing.T) {
		Expect(persistence.EnsureFoundRows("root:root@(127.0.0.1:3306)/fieldflow")).
			To(Equal("root:root@(127.0.0.1:3306)/fieldflow?clientFoundRows=true"))
		Expect(persistence.EnsureFoundRows("root:root@(127.0.0.1:3306)/fieldflow?charset=utf8mb4")).
			To(Equal("root:root@(127.0.0.1:3306)/fieldflow?charset=utf8mb4&clientFoundRows=true"))
	})

	t.Run("should keep an explicit clientFoundRows setting", func(t *testing.T) {
		Expect(persistence.EnsureFoundRows("root:root@(127.0.0.1:3306)/fieldflow?clientFoundRows=false")).
			To(Equal("root:root@(127.0.0.1:3306)/fieldflow?clientFoundRows=false"))
	})
}

func TestParseDatabaseConfigFromEnv(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should fail when DATABASE_ARGS is not set", func(t *testing.T) {
		os.Unsetenv("DATABASE_ARGS")
		_, err := persistence.ParseDatabaseConfigFromEnv()
		Expect(err).ToNot(BeNil())
	})

	t.Run("should default to mysql and carry found rows semantics", func(t *testing.T) {
		os.Unsetenv("DATABASE_DRIVER")
		os.Setenv("DATABASE_ARGS", "root:root@(127.0.0.1:3306)/fieldflow?charset=utf8mb4")
		defer os.Unsetenv("DATABASE_ARGS")

		config, err := persistence.ParseDatabaseConfigFromEnv()
		Expect(err).To(BeNil())
		Expect(config.DriverType).To(Equal("mysql"))
		Expect(config.DriverArgs).To(Equal("root:root@(127.0.0.1:3306)/fieldflow?charset=utf8mb4&clientFoundRows=true"))
	})
}
