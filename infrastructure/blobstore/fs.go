package blobstore

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
)

// FSStore guarda cada bucket como um diretório e cada objeto como um arquivo
type FSStore struct {
	fs afero.Fs
}

func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// NewOSStore restringe o acesso ao diretório raiz informado
func NewOSStore(root string) *FSStore {
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), root))
}

func objectPath(bucket, key string) string {
	return filepath.FromSlash(path.Join("/", bucket, key))
}

func (s *FSStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := s.fs.Stat(objectPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "erro ao verificar objeto")
	}
	return !info.IsDir(), nil
}

func (s *FSStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, objectPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao ler objeto")
	}
	return data, nil
}

// Put grava em um arquivo temporário e renomeia, para que leitores nunca vejam objetos parciais
func (s *FSStore) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := objectPath(bucket, key)
	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, "erro ao criar diretório do objeto")
	}

	tmp := target + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "erro ao gravar objeto")
	}

	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrap(err, "erro ao publicar objeto")
	}
	return nil
}

func (s *FSStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := objectPath(bucket, "")
	keys := make([]string, 0)

	exists, err := afero.DirExists(s.fs, root)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao verificar bucket")
	}
	if !exists {
		return keys, nil
	}

	err = afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar objetos")
	}

	sort.Strings(keys)
	return keys, nil
}
