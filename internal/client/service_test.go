package client_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/client/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name       string
		params     client.CreateParams
		setupMock  func(m *client.MockRepository)
		wantFields []string
		wantErr    bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: client.CreateParams{Nom: " SARL Atlas ", Adresse: "Alger", NIF: "123456"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClients(gomock.Any(), gomock.Len(1)).Return(nil)
			},
		},
		{
			name:       "MissingNameAndAddress",
			params:     client.CreateParams{},
			wantFields: []string{"nom", "adresse"},
			wantErr:    true,
		},
		{
			name:       "NonNumericIdentifiers",
			params:     client.CreateParams{Nom: "X", Adresse: "Y", RC: "16/00-123", NIS: "abc"},
			wantFields: []string{"rc", "nis"},
			wantErr:    true,
		},
		{
			name:   "RepoError",
			params: client.CreateParams{Nom: "X", Adresse: "Y"},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClients(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := client.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantFields != nil {
					var verr *client.ValidationError
					require.ErrorAs(t, err, &verr)

					for _, f := range tt.wantFields {
						assert.Contains(t, verr.Fields, f)
					}
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, "SARL Atlas", got.Nom)
			assert.False(t, got.DateCreation.IsZero())
		})
	}
}

func TestService_ListSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := client.NewMockRepository(ctrl)

	clients := []*client.Client{
		{ID: uuid.New(), Nom: "SARL Atlas", Adresse: "Oran", NIF: "000111"},
		{ID: uuid.New(), Nom: "EURL Sahara", Adresse: "Alger", RC: "16B0042"},
		{ID: uuid.New(), Nom: "SPA Numidia", Adresse: "Constantine", NIS: "987"},
	}
	repo.EXPECT().ListClients(gomock.Any()).Return(clients, nil).Times(4)

	svc := client.NewService(repo)

	type testCase struct {
		query string
		want  int
	}

	for _, tt := range []testCase{{"atlas", 1}, {"16b", 1}, {"987", 1}, {"", 3}} {
		got, err := svc.List(context.Background(), client.ListFilter{Query: tt.query})
		require.NoError(t, err)
		assert.Len(t, got, tt.want, tt.query)
	}
}

func TestService_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := client.NewMockRepository(ctrl)
	id := uuid.New()

	repo.EXPECT().GetClient(gomock.Any(), id).Return(nil, client.ErrNotFound)

	svc := client.NewService(repo)
	assert.Nil(t, svc.Lookup(context.Background(), uuid.Nil))
	assert.Nil(t, svc.Lookup(context.Background(), id))
}

func TestService_ImportBatchSkipsDuplicatesAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(store.New(kv.NewMemory()))

	_, err := svc.Create(ctx, client.CreateParams{Nom: "SARL Atlas", Adresse: "Oran", NIF: "111"})
	require.NoError(t, err)

	result, err := svc.ImportBatch(ctx, []client.CreateParams{
		{Nom: "sarl atlas", Adresse: "Oran"},
		{Nom: "Autre", Adresse: "Blida", NIF: "111"},
		{Nom: "EURL Sahara", Adresse: "Alger"},
		{Nom: "EURL Sahara", Adresse: "Alger"},
		{Nom: "", Adresse: "Tizi"},
	})
	require.NoError(t, err)

	assert.Len(t, result.Imported, 1)
	assert.Len(t, result.Duplicates, 3)
	assert.Len(t, result.Invalid, 1)

	all, err := svc.List(ctx, client.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := client.NewService(store.New(kv.NewMemory()))

	c, err := svc.Create(ctx, client.CreateParams{Nom: "A", Adresse: "B"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, client.CreateParams{Nom: "A2", Adresse: "B2", RC: "42"})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Nom)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", got.RC)

	require.NoError(t, svc.Delete(ctx, c.ID))

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := client.NewMockRepository(ctrl)

	now := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{
		{DateCreation: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{DateCreation: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{DateCreation: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)},
	}, nil)

	st, err := client.NewService(repo).Stats(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, client.Stats{Total: 3, NewThisMonth: 1}, st)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := client.WriteCSV(&buf, []*client.Client{
		{Nom: "SARL Atlas, Oran", Adresse: "1 rue X", NIF: "111", DateCreation: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Nom,Adresse,RC,NIF,NIS,Date de création", lines[0])
	assert.Equal(t, `"SARL Atlas, Oran",1 rue X,,111,,04/03/2025`, lines[1])
}
