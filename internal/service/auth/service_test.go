package auth_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
	repo_mocks "github.com/shaigo/knowledgehub/internal/repository/mocks"
	"github.com/shaigo/knowledgehub/internal/service/auth"
)

func TestService_Register_HashesPassword(t *testing.T) {
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)

	var stored model.User
	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u model.User) error {
			stored = u
			return nil
		})

	svc := auth.NewService(repo, zap.NewNop())
	err := svc.Register(context.Background(), model.UserCreateRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Role:     "user",
	})
	require.NoError(t, err)
	require.NotEqual(t, "secret123", stored.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestService_Authorize(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		repoErr  error
		wantErr  error
	}{
		{
			name:     "ok",
			password: "secret123",
		},
		{
			name:     "wrong password",
			password: "nope",
			wantErr:  errs.ErrInvalidCreds,
		},
		{
			name:     "unknown user",
			password: "secret123",
			repoErr:  errs.ErrNotFound,
			wantErr:  errs.ErrInvalidCreds,
		},
		{
			name:     "repo failure",
			password: "secret123",
			repoErr:  errors.New("db down"),
			wantErr:  errors.New("db down"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repo_mocks.NewMockRepository(c)

			if tt.repoErr != nil {
				repo.EXPECT().
					GetUser(gomock.Any(), "alice", "user").
					Return(model.User{}, tt.repoErr)
			} else {
				repo.EXPECT().
					GetUser(gomock.Any(), "alice", "user").
					Return(model.User{ID: 7, Username: "alice", Password: string(hash), Role: "user"}, nil)
			}

			svc := auth.NewService(repo, zap.NewNop())
			user, err := svc.Authorize(context.Background(), model.AuthRequest{
				Username: "alice",
				Password: tt.password,
				Role:     "user",
			})
			if tt.wantErr != nil {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, 7, user.ID)
		})
	}
}
