package decode

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zaqa/backend/internal/domain"
)

// stubRunner fakes the external OCR commands. pdftoppm invocations create a
// fake page image at the requested prefix so the page glob finds something.
type stubRunner struct {
	ocrText  string
	err      error
	commands []string
}

func (r *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.commands = append(r.commands, name)
	if r.err != nil {
		return nil, r.err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("fake png"), 0o600); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return []byte(r.ocrText), nil
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text passes through", func(t *testing.T) {
		d := NewDecoder(&stubRunner{})
		decoded, err := d.Decode(ctx, []byte("2 Widgets"), "text/plain", "order.txt")
		require.NoError(t, err)
		assert.Equal(t, "2 Widgets", decoded.Text)
		assert.Empty(t, decoded.Rows)
	})

	t.Run("csv yields rows and keeps raw text", func(t *testing.T) {
		data := []byte("2,Widget A\nnote,skip me\n3,Gadget B")
		d := NewDecoder(&stubRunner{})

		decoded, err := d.Decode(ctx, data, "text/csv", "order.csv")
		require.NoError(t, err)
		require.Len(t, decoded.Rows, 3)
		assert.Equal(t, []string{"2", "Widget A"}, decoded.Rows[0])
		assert.Equal(t, string(data), decoded.Text)
	})

	t.Run("content type parameters are ignored", func(t *testing.T) {
		d := NewDecoder(&stubRunner{})
		decoded, err := d.Decode(ctx, []byte("2,Widget A"), "text/csv; charset=utf-8", "upload")
		require.NoError(t, err)
		require.Len(t, decoded.Rows, 1)
	})

	t.Run("ragged csv rows are allowed", func(t *testing.T) {
		d := NewDecoder(&stubRunner{})
		decoded, err := d.Decode(ctx, []byte("2,Widget A,blue\n3,Gadget B"), "text/csv", "order.csv")
		require.NoError(t, err)
		require.Len(t, decoded.Rows, 2)
		assert.Len(t, decoded.Rows[0], 3)
		assert.Len(t, decoded.Rows[1], 2)
	})

	t.Run("xlsx yields first sheet rows", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetCellValue("Sheet1", "A1", 2))
		require.NoError(t, f.SetCellValue("Sheet1", "B1", "Widget A"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", 3))
		require.NoError(t, f.SetCellValue("Sheet1", "B2", "Gadget B"))
		buf, err := f.WriteToBuffer()
		require.NoError(t, err)

		d := NewDecoder(&stubRunner{})
		decoded, err := d.Decode(ctx, buf.Bytes(), "application/octet-stream", "order.xlsx")
		require.NoError(t, err)
		require.Len(t, decoded.Rows, 2)
		assert.Equal(t, []string{"2", "Widget A"}, decoded.Rows[0])
		assert.Equal(t, []string{"3", "Gadget B"}, decoded.Rows[1])
	})

	t.Run("image goes through ocr", func(t *testing.T) {
		runner := &stubRunner{ocrText: "2 Widgets\n"}
		d := NewDecoder(runner)

		decoded, err := d.Decode(ctx, []byte("fake png bytes"), "image/png", "scan.png")
		require.NoError(t, err)
		assert.Equal(t, "2 Widgets\n", decoded.Text)
		assert.Equal(t, []string{"tesseract"}, runner.commands)
	})

	t.Run("pdf without text layer falls back to ocr", func(t *testing.T) {
		runner := &stubRunner{ocrText: "2 Widgets"}
		d := NewDecoder(runner)

		decoded, err := d.Decode(ctx, []byte("not a real pdf"), "application/pdf", "scan.pdf")
		require.NoError(t, err)
		assert.Contains(t, decoded.Text, "2 Widgets")
		require.NotEmpty(t, runner.commands)
		assert.Equal(t, "pdftoppm", runner.commands[0])
	})

	t.Run("ocr command failure surfaces as upstream unavailable", func(t *testing.T) {
		runner := &stubRunner{err: errors.New("tesseract: not found")}
		d := NewDecoder(runner)

		_, err := d.Decode(ctx, []byte("fake"), "image/png", "scan.png")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		d := NewDecoder(&stubRunner{})
		_, err := d.Decode(ctx, []byte("PK"), "application/zip", "archive.zip")
		assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	})

	t.Run("malformed csv is an error", func(t *testing.T) {
		d := NewDecoder(&stubRunner{})
		_, err := d.Decode(ctx, []byte("\"unterminated"), "text/csv", "bad.csv")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "csv"))
	})
}
