package warranty

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warrantywallet/warranty-wallet/internal/models"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateWarranty(ctx context.Context, w models.Warranty) (*models.Warranty, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warranty), args.Error(1)
}
func (m *RepoMock) FindWarrantyByID(ctx context.Context, id primitive.ObjectID) (*models.Warranty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warranty), args.Error(1)
}
func (m *RepoMock) FindWarrantiesByOwner(ctx context.Context, ownerID string) ([]*models.Warranty, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warranty), args.Error(1)
}
func (m *RepoMock) FindWarrantiesBySharedEmail(ctx context.Context, email string) ([]*models.Warranty, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warranty), args.Error(1)
}
func (m *RepoMock) FindWarrantiesExpiring(ctx context.Context, ownerID string, start, end time.Time) ([]*models.Warranty, error) {
	args := m.Called(ctx, ownerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warranty), args.Error(1)
}
func (m *RepoMock) UpdateWarrantyByID(ctx context.Context, id primitive.ObjectID, w models.Warranty) (*models.Warranty, error) {
	args := m.Called(ctx, id, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warranty), args.Error(1)
}
func (m *RepoMock) DeleteWarrantyByID(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) AddSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warranty), args.Error(1)
}
func (m *RepoMock) RemoveSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warranty), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UsersMock) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type UploaderMock struct{ mock.Mock }

func (m *UploaderMock) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	args := m.Called(ctx, data, filename, contentType)
	return args.String(0), args.Error(1)
}
func (m *UploaderMock) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *RepoMock, users *UsersMock, uploader *UploaderMock, cache *CacheMock, now time.Time) *Service {
	s := NewService(repo, users, uploader, cache, newNoopLogger())
	s.now = func() time.Time { return now }
	return s
}

func date(value string) time.Time {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestService_Add(t *testing.T) {
	now := date("01-07-2024")
	owner := &models.User{GoogleID: "google-1", Email: "owner@example.com", Name: "Owner"}
	req := models.DummyWarranty{
		ItemName:    "Laptop",
		Category:    "Electronics",
		PurchasedOn: "01-01-2024",
		ExpiresOn:   "01-01-2025",
		Description: "Full coverage",
		AddedBy:     "google-1",
	}
	file := &models.InvoiceFile{Data: []byte("pdf"), Filename: "invoice.pdf", ContentType: "application/pdf"}

	tests := []struct {
		name       string
		file       *models.InvoiceFile
		setupMocks func(r *RepoMock, u *UsersMock, up *UploaderMock, c *CacheMock)
		check      func(t *testing.T, got *models.Warranty, err error, r *RepoMock, up *UploaderMock)
	}{
		{
			name: "success without file leaves invoice url empty",
			setupMocks: func(r *RepoMock, u *UsersMock, up *UploaderMock, c *CacheMock) {
				u.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
				r.On("CreateWarranty", mock.Anything, mock.MatchedBy(func(w models.Warranty) bool {
					return w.InvoiceURL == "" && w.AddedBy == "google-1" && w.ItemName == "Laptop"
				})).Return(&models.Warranty{ID: primitive.NewObjectID(), ItemName: "Laptop", AddedBy: "google-1"}, nil).Once()
				c.On("Set", mock.Anything, mock.Anything, cacheTTL).Return(nil).Once()
			},
			check: func(t *testing.T, got *models.Warranty, err error, _ *RepoMock, _ *UploaderMock) {
				require.NoError(t, err)
				assert.Empty(t, got.InvoiceURL)
				assert.Equal(t, "google-1", got.AddedBy)
			},
		},
		{
			name: "unknown owner is rejected before upload and persist",
			file: file,
			setupMocks: func(r *RepoMock, u *UsersMock, up *UploaderMock, c *CacheMock) {
				u.On("FindUserByGoogleID", mock.Anything, "google-1").Return(nil, storage.ErrUserNotFound).Once()
			},
			check: func(t *testing.T, _ *models.Warranty, err error, r *RepoMock, up *UploaderMock) {
				assert.ErrorIs(t, err, storage.ErrUserNotFound)
				up.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				r.AssertNotCalled(t, "CreateWarranty", mock.Anything, mock.Anything)
			},
		},
		{
			name: "upload failure aborts without persisting",
			file: file,
			setupMocks: func(r *RepoMock, u *UsersMock, up *UploaderMock, c *CacheMock) {
				u.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
				up.On("Upload", mock.Anything, file.Data, "invoice.pdf", "application/pdf").
					Return("", errors.New("s3 unavailable")).Once()
			},
			check: func(t *testing.T, _ *models.Warranty, err error, r *RepoMock, _ *UploaderMock) {
				assert.Error(t, err)
				r.AssertNotCalled(t, "CreateWarranty", mock.Anything, mock.Anything)
			},
		},
		{
			name: "failed insert after upload deletes orphaned invoice",
			file: file,
			setupMocks: func(r *RepoMock, u *UsersMock, up *UploaderMock, c *CacheMock) {
				u.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
				up.On("Upload", mock.Anything, file.Data, "invoice.pdf", "application/pdf").
					Return("https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/x", nil).Once()
				r.On("CreateWarranty", mock.Anything, mock.Anything).Return(nil, errors.New("write failed")).Once()
				up.On("Delete", mock.Anything, "https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/x").
					Return(nil).Once()
			},
			check: func(t *testing.T, _ *models.Warranty, err error, _ *RepoMock, up *UploaderMock) {
				assert.Error(t, err)
				up.AssertExpectations(t)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			uploader := new(UploaderMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, users, uploader, cache)

			svc := newTestService(repo, users, uploader, cache, now)
			got, err := svc.Add(context.Background(), req, tt.file)
			tt.check(t, got, err, repo, uploader)

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestService_GetByID(t *testing.T) {
	id := primitive.NewObjectID()
	stored := &models.Warranty{ID: id, ItemName: "Laptop", AddedBy: "google-1"}

	t.Run("malformed id never reaches the repository", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())

		_, err := svc.GetByID(context.Background(), "abc")
		assert.ErrorIs(t, err, ErrInvalidID)
		repo.AssertNotCalled(t, "FindWarrantyByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", cacheKeyFor(id.Hex()), mock.Anything).Return(false, nil).Once()
		repo.On("FindWarrantyByID", mock.Anything, id).Return(stored, nil).Once()
		cache.On("Set", cacheKeyFor(id.Hex()), stored, cacheTTL).Return(nil).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), cache, time.Now())
		got, err := svc.GetByID(context.Background(), id.Hex())
		require.NoError(t, err)
		assert.Equal(t, stored.ItemName, got.ItemName)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing warranty", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("FindWarrantyByID", mock.Anything, id).Return(nil, storage.ErrWarrantyNotFound).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), cache, time.Now())
		_, err := svc.GetByID(context.Background(), id.Hex())
		assert.ErrorIs(t, err, storage.ErrWarrantyNotFound)
	})
}

func TestService_ListForUser_Enrichment(t *testing.T) {
	owner := &models.User{GoogleID: "google-1", Email: "owner@example.com"}
	now := date("01-07-2024")

	tests := []struct {
		name           string
		warranty       models.Warranty
		wantDaysLeft   int
		wantPercentage float64
	}{
		{
			name: "mid coverage",
			warranty: models.Warranty{
				PurchasedOn: date("01-01-2024"),
				ExpiresOn:   date("01-01-2025"),
			},
			// 366 дней покрытия, осталось 184
			wantDaysLeft:   184,
			wantPercentage: 49.73,
		},
		{
			name: "zero coverage period",
			warranty: models.Warranty{
				PurchasedOn: date("01-01-2024"),
				ExpiresOn:   date("01-01-2024"),
			},
			wantDaysLeft:   0,
			wantPercentage: 100,
		},
		{
			name: "already expired",
			warranty: models.Warranty{
				PurchasedOn: date("01-01-2023"),
				ExpiresOn:   date("01-01-2024"),
			},
			wantDaysLeft:   0,
			wantPercentage: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			users.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
			repo.On("FindWarrantiesByOwner", mock.Anything, "google-1").
				Return([]*models.Warranty{&tt.warranty}, nil).Once()
			repo.On("FindWarrantiesBySharedEmail", mock.Anything, "owner@example.com").
				Return([]*models.Warranty{}, nil).Once()

			svc := newTestService(repo, users, new(UploaderMock), new(CacheMock), now)
			got, err := svc.ListForUser(context.Background(), "google-1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantDaysLeft, got[0].DaysLeft)
			assert.InDelta(t, tt.wantPercentage, got[0].Percentage, 0.01)
			assert.Equal(t, "owner@example.com", got[0].AddedByEmail)
		})
	}
}

func TestService_ListForUser_UnionAndEmpty(t *testing.T) {
	owner := &models.User{GoogleID: "google-1", Email: "owner@example.com"}
	now := date("01-07-2024")

	t.Run("union of owned and shared records", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UsersMock)
		users.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
		repo.On("FindWarrantiesByOwner", mock.Anything, "google-1").
			Return([]*models.Warranty{{ItemName: "Laptop", PurchasedOn: now, ExpiresOn: now.AddDate(1, 0, 0)}}, nil).Once()
		repo.On("FindWarrantiesBySharedEmail", mock.Anything, "owner@example.com").
			Return([]*models.Warranty{{ItemName: "TV", PurchasedOn: now, ExpiresOn: now.AddDate(1, 0, 0)}}, nil).Once()

		svc := newTestService(repo, users, new(UploaderMock), new(CacheMock), now)
		got, err := svc.ListForUser(context.Background(), "google-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Laptop", got[0].ItemName)
		assert.Equal(t, "TV", got[1].ItemName)
	})

	t.Run("no records is an empty list, not an error", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UsersMock)
		users.On("FindUserByGoogleID", mock.Anything, "google-1").Return(owner, nil).Once()
		repo.On("FindWarrantiesByOwner", mock.Anything, "google-1").Return([]*models.Warranty{}, nil).Once()
		repo.On("FindWarrantiesBySharedEmail", mock.Anything, "owner@example.com").Return([]*models.Warranty{}, nil).Once()

		svc := newTestService(repo, users, new(UploaderMock), new(CacheMock), now)
		got, err := svc.ListForUser(context.Background(), "google-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(UsersMock)
		users.On("FindUserByGoogleID", mock.Anything, "missing").Return(nil, storage.ErrUserNotFound).Once()

		svc := newTestService(new(RepoMock), users, new(UploaderMock), new(CacheMock), now)
		_, err := svc.ListForUser(context.Background(), "missing")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})
}

func TestService_ListExpiringSoon(t *testing.T) {
	now := date("01-07-2024")

	repo := new(RepoMock)
	repo.On("FindWarrantiesExpiring", mock.Anything, "google-1", now, now.AddDate(0, 0, ExpiringWindowDays)).
		Return([]*models.Warranty{{ItemName: "Laptop", ExpiresOn: now.AddDate(0, 0, 5)}}, nil).Once()

	svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), now)
	got, err := svc.ListExpiringSoon(context.Background(), "google-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0].ItemName)
	assert.Equal(t, 5, got[0].DaysLeft)
	repo.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	id := primitive.NewObjectID()
	req := models.DummyWarrantyUpdate{
		ItemName:    "Laptop",
		Category:    "Electronics",
		PurchasedOn: "01-01-2024",
		ExpiresOn:   "01-01-2025",
		Description: "Extended coverage",
		InvoiceURL:  "https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/old",
	}

	t.Run("malformed id", func(t *testing.T) {
		svc := newTestService(new(RepoMock), new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Update(context.Background(), "abc", req, nil)
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("without file the provided invoice url is kept verbatim", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("UpdateWarrantyByID", mock.Anything, id, mock.MatchedBy(func(w models.Warranty) bool {
			return w.InvoiceURL == req.InvoiceURL && w.ItemName == "Laptop"
		})).Return(&models.Warranty{ID: id, ItemName: "Laptop", InvoiceURL: req.InvoiceURL}, nil).Once()
		cache.On("Invalidate", cacheKeyFor(id.Hex())).Return(nil).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), cache, time.Now())
		got, err := svc.Update(context.Background(), id.Hex(), req, nil)
		require.NoError(t, err)
		assert.Equal(t, req.InvoiceURL, got.InvoiceURL)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("new file replaces the invoice url", func(t *testing.T) {
		repo := new(RepoMock)
		uploader := new(UploaderMock)
		cache := new(CacheMock)
		file := &models.InvoiceFile{Data: []byte("pdf"), Filename: "new.pdf", ContentType: "application/pdf"}

		uploader.On("Upload", mock.Anything, file.Data, "new.pdf", "application/pdf").
			Return("https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/new", nil).Once()
		repo.On("UpdateWarrantyByID", mock.Anything, id, mock.MatchedBy(func(w models.Warranty) bool {
			return w.InvoiceURL == "https://warranty-wallet.s3.eu-north-1.amazonaws.com/invoices/new"
		})).Return(&models.Warranty{ID: id}, nil).Once()
		cache.On("Invalidate", cacheKeyFor(id.Hex())).Return(nil).Once()

		svc := newTestService(repo, new(UsersMock), uploader, cache, time.Now())
		_, err := svc.Update(context.Background(), id.Hex(), req, file)
		require.NoError(t, err)
		uploader.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("missing warranty", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("UpdateWarrantyByID", mock.Anything, id, mock.Anything).
			Return(nil, storage.ErrWarrantyNotFound).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Update(context.Background(), id.Hex(), req, nil)
		assert.ErrorIs(t, err, storage.ErrWarrantyNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("malformed id", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		err := svc.Delete(context.Background(), "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
		repo.AssertNotCalled(t, "DeleteWarrantyByID", mock.Anything, mock.Anything)
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("DeleteWarrantyByID", mock.Anything, id).Return(nil).Once()
		cache.On("Invalidate", cacheKeyFor(id.Hex())).Return(nil).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), cache, time.Now())
		require.NoError(t, svc.Delete(context.Background(), id.Hex()))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("missing warranty", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("DeleteWarrantyByID", mock.Anything, id).Return(storage.ErrWarrantyNotFound).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		assert.ErrorIs(t, svc.Delete(context.Background(), id.Hex()), storage.ErrWarrantyNotFound)
	})
}

func TestService_Share(t *testing.T) {
	id := primitive.NewObjectID()
	stored := &models.Warranty{ID: id, SharedWith: []string{"first@example.com"}}

	t.Run("success appends email once", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UsersMock)
		cache := new(CacheMock)
		repo.On("FindWarrantyByID", mock.Anything, id).Return(stored, nil).Once()
		users.On("FindUserByEmail", mock.Anything, "second@example.com").
			Return(&models.User{Email: "second@example.com"}, nil).Once()
		repo.On("AddSharedEmail", mock.Anything, id, "second@example.com").
			Return(&models.Warranty{ID: id, SharedWith: []string{"first@example.com", "second@example.com"}}, nil).Once()
		cache.On("Invalidate", cacheKeyFor(id.Hex())).Return(nil).Once()

		svc := newTestService(repo, users, new(UploaderMock), cache, time.Now())
		got, err := svc.Share(context.Background(), id.Hex(), "second@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"first@example.com", "second@example.com"}, got)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate share is rejected without writing", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindWarrantyByID", mock.Anything, id).Return(stored, nil).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Share(context.Background(), id.Hex(), "first@example.com")
		assert.ErrorIs(t, err, ErrAlreadyShared)
		repo.AssertNotCalled(t, "AddSharedEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		repo := new(RepoMock)
		users := new(UsersMock)
		repo.On("FindWarrantyByID", mock.Anything, id).Return(stored, nil).Once()
		users.On("FindUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, storage.ErrUserNotFound).Once()

		svc := newTestService(repo, users, new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Share(context.Background(), id.Hex(), "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
	})

	t.Run("missing warranty", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("FindWarrantyByID", mock.Anything, id).Return(nil, storage.ErrWarrantyNotFound).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Share(context.Background(), id.Hex(), "second@example.com")
		assert.ErrorIs(t, err, storage.ErrWarrantyNotFound)
	})
}

func TestService_Revoke(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("revoking an absent email is a silent no-op", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		unchanged := &models.Warranty{ID: id, SharedWith: []string{"first@example.com"}}
		repo.On("RemoveSharedEmail", mock.Anything, id, "nobody@example.com").Return(unchanged, nil).Once()
		cache.On("Invalidate", cacheKeyFor(id.Hex())).Return(nil).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), cache, time.Now())
		got, err := svc.Revoke(context.Background(), id.Hex(), "nobody@example.com")
		require.NoError(t, err)
		assert.Equal(t, unchanged.SharedWith, got.SharedWith)
	})

	t.Run("missing warranty", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("RemoveSharedEmail", mock.Anything, id, "first@example.com").
			Return(nil, storage.ErrWarrantyNotFound).Once()

		svc := newTestService(repo, new(UsersMock), new(UploaderMock), new(CacheMock), time.Now())
		_, err := svc.Revoke(context.Background(), id.Hex(), "first@example.com")
		assert.ErrorIs(t, err, storage.ErrWarrantyNotFound)
	})
}
