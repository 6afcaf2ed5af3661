package fragment

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/samber/oops"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
	"kilometers.ai/dropin/internal/infrastructure/parser"
)

// FileLoader discovers and parses the fragments of a domain through afs,
// so the same code audits the live filesystem ("/"), a mounted image
// ("/mnt/image") or an in-memory tree ("mem://localhost/...").
type FileLoader struct {
	fs     afs.Service
	root   string
	strict bool
	logger hclog.Logger
}

// LoaderOption configures a FileLoader
type LoaderOption func(*FileLoader)

// WithRoot sets the filesystem prefix every domain path is resolved under
func WithRoot(root string) LoaderOption {
	return func(l *FileLoader) { l.root = root }
}

// WithStrict makes unreadable or malformed fragments fail the load
func WithStrict(strict bool) LoaderOption {
	return func(l *FileLoader) { l.strict = strict }
}

// WithLogger sets the logger
func WithLogger(logger hclog.Logger) LoaderOption {
	return func(l *FileLoader) { l.logger = logger }
}

// NewFileLoader creates a new FileLoader
func NewFileLoader(fs afs.Service, opts ...LoaderOption) *FileLoader {
	l := &FileLoader{
		fs:     fs,
		root:   "/",
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named("source")
	return l
}

// Name returns the source name
func (l *FileLoader) Name() string { return "filesystem" }

// Load reads the base file and both drop-in trees of domain. Missing files
// and directories are not errors.
func (l *FileLoader) Load(ctx context.Context, domain dropin.Domain) (dropin.Sources, error) {
	p, err := parser.ForSyntax(domain)
	if err != nil {
		return dropin.Sources{}, err
	}

	var src dropin.Sources
	if domain.Base != "" {
		base, ok, err := l.loadFile(ctx, domain, p, domain.Base, dropin.TierBase)
		if err != nil {
			return dropin.Sources{}, err
		}
		if ok {
			src.Base = &base
		}
	}

	if src.Admin, err = l.loadDir(ctx, domain, p, domain.AdminDir, dropin.TierAdmin); err != nil {
		return dropin.Sources{}, err
	}
	if src.Vendor, err = l.loadDir(ctx, domain, p, domain.VendorDir, dropin.TierVendor); err != nil {
		return dropin.Sources{}, err
	}

	l.logger.Debug("loaded domain",
		"domain", domain.Name,
		"base", src.Base != nil,
		"admin", len(src.Admin),
		"vendor", len(src.Vendor))
	return src, nil
}

// URL maps a logical path such as /etc/sysctl.d onto the loader root
func (l *FileLoader) URL(p string) string {
	root := strings.TrimRight(l.root, "/")
	if root == "" {
		return p
	}
	return root + "/" + strings.TrimLeft(p, "/")
}

func (l *FileLoader) loadDir(ctx context.Context, domain dropin.Domain, p dropinports.Parser, dir string, tier dropin.Tier) ([]dropin.Fragment, error) {
	if dir == "" {
		return nil, nil
	}

	dirURL := l.URL(dir)
	exists, err := l.fs.Exists(ctx, dirURL)
	if err != nil || !exists {
		l.logger.Debug("drop-in directory absent", "domain", domain.Name, "dir", dir)
		return nil, nil
	}

	objects, err := l.fs.List(ctx, dirURL)
	if err != nil {
		return nil, oops.
			In("source").
			With("domain", domain.Name, "dir", dir).
			Wrapf(err, "failed to list drop-in directory")
	}

	files := make([]storage.Object, 0, len(objects))
	for _, object := range objects {
		if object.IsDir() || !domain.Matches(object.Name()) {
			continue
		}
		files = append(files, object)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	fragments := make([]dropin.Fragment, 0, len(files))
	for _, object := range files {
		f, ok, err := l.loadFile(ctx, domain, p, path.Join(dir, object.Name()), tier)
		if err != nil {
			return nil, err
		}
		if ok {
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}

// loadFile reads and parses one file. ok is false when the file does not
// exist. In lenient mode an unreadable file becomes an empty fragment so
// that it still shadows its vendor counterpart.
func (l *FileLoader) loadFile(ctx context.Context, domain dropin.Domain, p dropinports.Parser, logical string, tier dropin.Tier) (dropin.Fragment, bool, error) {
	fileURL := l.URL(logical)
	if exists, _ := l.fs.Exists(ctx, fileURL); !exists {
		return dropin.Fragment{}, false, nil
	}

	data, err := l.fs.DownloadWithURL(ctx, fileURL)
	if err != nil {
		if l.strict {
			return dropin.Fragment{}, false, oops.
				In("source").
				With("domain", domain.Name, "path", logical).
				Wrapf(err, "failed to read fragment")
		}
		l.logger.Warn("fragment unreadable, treating as empty", "domain", domain.Name, "path", logical, "error", err)
		return dropin.NewFragment(logical, tier, dropin.Settings{}), true, nil
	}

	settings, err := p.Parse(logical, data)
	if err != nil {
		if l.strict {
			return dropin.Fragment{}, false, oops.
				In("source").
				With("domain", domain.Name, "path", logical).
				Wrapf(err, "failed to parse fragment")
		}
		l.logger.Warn("fragment has invalid lines", "domain", domain.Name, "path", logical, "error", err)
	}

	return dropin.NewFragment(logical, tier, settings), true, nil
}

var _ dropinports.Source = (*FileLoader)(nil)
