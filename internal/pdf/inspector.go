package pdf

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspector reads document structure with pdfcpu
type Inspector struct {
	mode int
}

// NewInspector creates an inspector using relaxed validation
func NewInspector() *Inspector {
	return &Inspector{mode: model.ValidationRelaxed}
}

// PageCount parses the cross reference structure and returns the page count
func (i *Inspector) PageCount(path string) (int, error) {
	ctx, err := i.readContext(path)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// Encrypted reports whether the document carries an encryption dictionary
func (i *Inspector) Encrypted(path string) (bool, error) {
	ctx, err := i.readContext(path)
	if err != nil {
		return KindOf(err) == KindEncrypted, err
	}
	return ctx.Encrypt != nil, nil
}

func (i *Inspector) readContext(path string) (*model.Context, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newError(KindNotFound, path, "failed to open file", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = i.mode

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, newError(KindCorrupted, path, "failed to determine page count", err)
	}

	return ctx, nil
}
