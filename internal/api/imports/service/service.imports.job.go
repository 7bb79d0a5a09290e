// Package importsvc - Service lịch sử import job (crm_import_jobs).
package importsvc

import (
	"context"
	"fmt"

	basesvc "contact_importer/internal/api/base/service"
	importmodels "contact_importer/internal/api/imports/models"
	"contact_importer/internal/common"
	"contact_importer/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

// ImportJobService xử lý CRUD lịch sử import.
type ImportJobService struct {
	*basesvc.BaseServiceMongoImpl[importmodels.ImportJob]
}

// NewImportJobService tạo ImportJobService mới.
func NewImportJobService() (*ImportJobService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ImportJobs)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.ImportJobs, common.ErrNotFound)
	}
	return &ImportJobService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[importmodels.ImportJob](coll),
	}, nil
}

// FindByJobID tìm job theo UUID cấp cho client.
func (s *ImportJobService) FindByJobID(ctx context.Context, jobID string) (*importmodels.ImportJob, error) {
	job, err := s.FindOne(ctx, bson.M{"jobId": jobID}, nil)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
