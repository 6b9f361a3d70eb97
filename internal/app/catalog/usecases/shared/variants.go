package shared

import (
	"context"

	"github.com/light-bringer/procat-admin/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/app/catalog/media"
	"github.com/light-bringer/procat-admin/internal/pkg/committer"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
	"github.com/light-bringer/procat-admin/internal/platform/recordstore"
)

// VariantWriter appends variant persistence to a plan: for each variant an
// upload step followed by the insert of its row.
type VariantWriter struct {
	repos    contracts.RepositoryFactory
	uploader *media.Uploader
}

// NewVariantWriter creates a new VariantWriter.
func NewVariantWriter(repos contracts.RepositoryFactory, uploader *media.Uploader) *VariantWriter {
	return &VariantWriter{repos: repos, uploader: uploader}
}

// AddSteps appends the steps for specs. productID is read when the steps
// run, so it may be filled in by an earlier step. Stored variants are
// appended to written.
func (w *VariantWriter) AddSteps(plan *committer.Plan, productID *int64, specs []domain.VariantSpec, written *[]*domain.Variant) {
	for _, spec := range specs {
		spec := spec
		var urls []string

		plan.Write("upload_images."+spec.Key(), func(ctx context.Context, _ recordstore.Store) error {
			folder, err := objectstore.BuildFolder(objectstore.PurposeVariantImage, objectstore.FolderParams{
				ProductID: *productID,
				ColorID:   spec.ColorID,
			})
			if err != nil {
				return err
			}
			urls, err = w.uploader.Resolve(ctx, folder, spec.Images)
			return err
		})

		plan.Write("insert_variant."+spec.Key(), func(ctx context.Context, s recordstore.Store) error {
			colorID := spec.ColorID
			stored, err := w.repos(s).Variants.Insert(ctx, &domain.Variant{
				ProductID: *productID,
				ColorID:   &colorID,
				SizeID:    spec.SizeID,
				Images:    urls,
				Quantity:  spec.Quantity,
			})
			if err != nil {
				return err
			}
			*written = append(*written, stored)
			return nil
		})
	}
}
