package usecase

import "context"

type RecommendUC interface {
	Recommend(ctx context.Context, req *RecommendReq) (*RecommendRes, error)
	FilterOptions(ctx context.Context) (*FilterOptionsRes, error)
}

type VisualSearchUC interface {
	SearchByImage(ctx context.Context, req *VisualSearchReq) (*VisualSearchRes, error)
}

type IngestUC interface {
	RebuildCatalog(ctx context.Context, rows []IngestRow) (*IngestRes, error)
	SyncImages(ctx context.Context, uploads []ImageUpload) (*ImageSyncRes, error)
}
