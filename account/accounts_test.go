package account_test

import (
	"context"
	"testing"

	"fieldflow/account"
	"fieldflow/bizerror"
	"fieldflow/persistence"
	"fieldflow/session"
	"fieldflow/testinfra"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var testDatabase *testinfra.TestDatabase

func setup(t *testing.T) {
	testDatabase = testinfra.StartMysqlTestDatabase("fieldflow")
	assert.Nil(t, testDatabase.DS.GormDB(context.Background()).AutoMigrate(&account.User{}).Error)
	persistence.ActiveDataSourceManager = testDatabase.DS
}

func teardown(t *testing.T) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestRegisterUser(t *testing.T) {
	RegisterTestingT(t)

	form := account.RegisterForm{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
		Mobile: "9876543210", Password: "some pass", Role: session.RoleWorker}

	t.Run("should reject unknown roles", func(t *testing.T) {
		bad := form
		bad.Role = "supervisor"
		_, err := account.RegisterUser(&bad, context.Background())
		Expect(err).To(Equal(bizerror.ErrUnknownRole))
	})

	t.Run("should create the user with a hashed secret", func(t *testing.T) {
		setup(t)
		defer teardown(t)

		info, err := account.RegisterUser(&form, context.Background())
		Expect(err).To(BeNil())
		Expect(info.ID).ToNot(BeZero())
		Expect(info.Email).To(Equal("ann@example.com"))
		Expect(info.Role).To(Equal(session.RoleWorker))

		stored := account.User{}
		Expect(testDatabase.DS.GormDB(context.Background()).
			Where("email = ?", "ann@example.com").First(&stored).Error).To(BeNil())
		Expect(stored.Secret).To(Equal(account.HashSha256("some pass")))
		Expect(stored.Secret).ToNot(Equal("some pass"))
		Expect(stored.DisplayName()).To(Equal("Ann Lee"))
	})

	t.Run("should reject a duplicated email", func(t *testing.T) {
		setup(t)
		defer teardown(t)

		_, err := account.RegisterUser(&form, context.Background())
		Expect(err).To(BeNil())

		again := form
		again.FirstName = "Other"
		_, err = account.RegisterUser(&again, context.Background())
		Expect(err).To(Equal(bizerror.ErrAccountExisted))
	})
}

func TestAuthenticateUser(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should match email and password", func(t *testing.T) {
		setup(t)
		defer teardown(t)

		form := account.RegisterForm{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
			Mobile: "9876543210", Password: "some pass", Role: session.RoleContractor}
		_, err := account.RegisterUser(&form, context.Background())
		Expect(err).To(BeNil())

		user, err := account.AuthenticateUser("ann@example.com", "some pass", context.Background())
		Expect(err).To(BeNil())
		Expect(user.Role).To(Equal(session.RoleContractor))

		_, err = account.AuthenticateUser("ann@example.com", "bad pass", context.Background())
		Expect(err).To(Equal(bizerror.ErrInvalidPassword))

		_, err = account.AuthenticateUser("nobody@example.com", "some pass", context.Background())
		Expect(err).To(Equal(bizerror.ErrInvalidPassword))
	})
}
