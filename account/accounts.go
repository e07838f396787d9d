package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"fieldflow/bizerror"
	"fieldflow/idgen"
	"fieldflow/persistence"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	RegisterUserFunc     = RegisterUser
	AuthenticateUserFunc = AuthenticateUser
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

func RegisterUser(f *RegisterForm, ctx context.Context) (*UserInfo, error) {
	if !session.IsKnownRole(f.Role) {
		return nil, bizerror.ErrUnknownRole
	}

	user := User{ID: idgen.NextID(userIdWorker), Email: f.Email, Secret: HashSha256(f.Password),
		FirstName: f.FirstName, LastName: f.LastName, Mobile: f.Mobile, Role: f.Role,
		CreateTime: types.CurrentTimestamp()}

	err := persistence.ActiveDataSourceManager.GormDB(ctx).Transaction(func(tx *gorm.DB) error {
		existed := User{}
		err := tx.Where(&User{Email: f.Email}).First(&existed).Error
		if err == nil {
			return bizerror.ErrAccountExisted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &UserInfo{ID: user.ID, Email: user.Email, FirstName: user.FirstName,
		LastName: user.LastName, Role: user.Role}, nil
}

func AuthenticateUser(email, password string, ctx context.Context) (*User, error) {
	user := User{}
	err := persistence.ActiveDataSourceManager.GormDB(ctx).
		Where(&User{Email: email, Secret: HashSha256(password)}).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrInvalidPassword
		}
		return nil, err
	}
	return &user, nil
}
