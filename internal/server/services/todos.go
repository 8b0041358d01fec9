package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/dbx"
	sc "github.com/babalolajnr/todo-api/internal/server/config"
	"github.com/babalolajnr/todo-api/internal/server/models"
	"github.com/babalolajnr/todo-api/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// TodoUpdate carries the fields of a partial update. Nil fields are left
// untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	Done        *bool
}

type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *TodoService {
	return &TodoService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("todos/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// getOwned loads the todo and checks it against the caller. A missing record
// reports common.ErrNotFound before any ownership decision; a record owned by
// someone else reports common.ErrForbidden.
func (s *TodoService) getOwned(ctx context.Context, db dbx.DBTX, id, ownerID string) (*models.Todo, error) {
	repo := s.repomanager.Todos(db)

	todo, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if todo.UserID != ownerID {
		return nil, common.ErrForbidden
	}

	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
	todo := &models.Todo{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		UserID:      ownerID,
	}

	repo := s.repomanager.Todos(s.db)

	todo, err := repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}

	return todo, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	return repo.ListByUser(ctx, ownerID)
}

func (s *TodoService) Get(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	return s.getOwned(ctx, s.db, id, ownerID)
}

// Update applies a partial update. The ownership check and the write run in
// one transaction so the todo cannot change hands between them.
func (s *TodoService) Update(ctx context.Context, id, ownerID string, upd TodoUpdate) (*models.Todo, error) {
	var todo *models.Todo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.getOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Done != nil {
			t.Done = *upd.Done
		}

		todo, err = s.repomanager.Todos(tx).Update(ctx, t)
		if err != nil {
			return fmt.Errorf("error updating todo: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return todo, nil
}

// Toggle flips the done flag, reading and writing in one transaction.
func (s *TodoService) Toggle(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	var todo *models.Todo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := s.getOwned(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		t.Done = !t.Done

		todo, err = s.repomanager.Todos(tx).Update(ctx, t)
		if err != nil {
			return fmt.Errorf("error updating todo: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.getOwned(ctx, s.db, id, ownerID); err != nil {
		return err
	}

	repo := s.repomanager.Todos(s.db)

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting todo: %w", err)
	}

	return nil
}

func (s *TodoService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// AttachmentUploadURL presigns a PUT for a fresh storage key and records the
// key on the todo.
func (s *TodoService) AttachmentUploadURL(ctx context.Context, id, ownerID string) (string, error) {
	if _, err := s.getOwned(ctx, s.db, id, ownerID); err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	repo := s.repomanager.Todos(s.db)
	if err := repo.SetAttachmentKey(ctx, id, key); err != nil {
		return "", fmt.Errorf("error saving attachment key: %w", err)
	}

	return req.URL, nil
}

// AttachmentDownloadURL presigns a GET for the todo's stored attachment.
// A todo without an attachment reports common.ErrNotFound.
func (s *TodoService) AttachmentDownloadURL(ctx context.Context, id, ownerID string) (string, error) {
	todo, err := s.getOwned(ctx, s.db, id, ownerID)
	if err != nil {
		return "", err
	}

	if todo.AttachmentKey == "" {
		return "", fmt.Errorf("%w: todo has no attachment", common.ErrNotFound)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &todo.AttachmentKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
