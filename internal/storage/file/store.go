// Package file stores the rental ledger as flat comma delimited files in one directory.
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/sheikh-saqib/rental-ledger/internal/codec"
	interfaces "github.com/sheikh-saqib/rental-ledger/internal/interfaces"
	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

const (
	HistoryFile = "alugados.csv"
	ActiveFile  = "ativos.csv"
	ReturnsFile = "devolvidos.csv"
	SummaryFile = "resumo_diario.txt"

	RentalHeader  = "alugadoISO,id,titulo,preco,CPFcliente\n"
	ReturnsHeader = "alugadoISO,devolvidoISO,id,titulo,preco,CPFcliente,dias,precoReal\n"
	SummaryHeader = "RESUMO DIÁRIO DA BIBLIOTECA\n"
)

const filePerm = 0o644

// FileLedgerStore keeps each ledger table in its own file under dir.
type FileLedgerStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileLedgerStore(dir string) *FileLedgerStore {
	return &FileLedgerStore{dir: dir}
}

func (f *FileLedgerStore) Dir() string {
	return f.dir
}

func (f *FileLedgerStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

// Initialize creates the directory and any missing file with its header.
// Existing files are left untouched.
func (f *FileLedgerStore) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create ledger directory %s", f.dir)
	}

	files := []struct {
		name   string
		header string
	}{
		{HistoryFile, RentalHeader},
		{ActiveFile, RentalHeader},
		{ReturnsFile, ReturnsHeader},
		{SummaryFile, SummaryHeader},
	}
	for _, file := range files {
		if err := createIfMissing(f.path(file.name), file.header); err != nil {
			return err
		}
	}
	return nil
}

func createIfMissing(path, header string) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer fh.Close()

	if _, err := fh.WriteString(header); err != nil {
		return errors.Wrapf(err, "write header to %s", path)
	}
	return nil
}

func (f *FileLedgerStore) ReadActive(ctx context.Context) ([]models.ActiveRental, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readRecords(ActiveFile)
	if err != nil {
		return nil, err
	}

	rentals := make([]models.ActiveRental, 0, len(records))
	for i, rec := range records {
		r, err := decodeRental(rec)
		if err != nil {
			return nil, newDecodeError(ActiveFile, i+1, err)
		}
		rentals = append(rentals, r)
	}
	return rentals, nil
}

// OverwriteActive replaces the active table with header + rows. The new content
// is written to a temporary file that is renamed over the old one.
func (f *FileLedgerStore) OverwriteActive(ctx context.Context, rows []models.ActiveRental) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ActiveFile+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary active file")
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	var content strings.Builder
	content.WriteString(RentalHeader)
	for _, r := range rows {
		content.WriteString(encodeRental(r))
	}

	if _, err := tmp.WriteString(content.String()); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), f.path(ActiveFile)); err != nil {
		return errors.Wrapf(err, "replace %s", ActiveFile)
	}
	return nil
}

func (f *FileLedgerStore) AppendActive(ctx context.Context, row models.ActiveRental) error {
	return f.append(ctx, ActiveFile, encodeRental(row))
}

func (f *FileLedgerStore) AppendHistory(ctx context.Context, row models.ActiveRental) error {
	return f.append(ctx, HistoryFile, encodeRental(row))
}

func (f *FileLedgerStore) ReadReturns(ctx context.Context) ([]models.CompletedReturn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readRecords(ReturnsFile)
	if err != nil {
		return nil, err
	}

	returns := make([]models.CompletedReturn, 0, len(records))
	for i, rec := range records {
		r, err := decodeReturn(rec)
		if err != nil {
			return nil, newDecodeError(ReturnsFile, i+1, err)
		}
		returns = append(returns, r)
	}
	return returns, nil
}

func (f *FileLedgerStore) AppendReturn(ctx context.Context, row models.CompletedReturn) error {
	return f.append(ctx, ReturnsFile, encodeReturn(row))
}

func (f *FileLedgerStore) AppendSummary(ctx context.Context, line string) error {
	return f.append(ctx, SummaryFile, line+"\n")
}

func (f *FileLedgerStore) append(ctx context.Context, name, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.OpenFile(f.path(name), os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return errors.Wrapf(err, "open %s", name)
	}
	defer fh.Close()

	if _, err := fh.WriteString(data); err != nil {
		return errors.Wrapf(err, "append to %s", name)
	}
	return nil
}

// readRecords returns the encoded rows of a table, header excluded.
func (f *FileLedgerStore) readRecords(name string) ([]string, error) {
	raw, err := os.ReadFile(f.path(name))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	records := codec.SplitRecords(string(raw))
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// Compile-time check: ensure FileLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*FileLedgerStore)(nil)
