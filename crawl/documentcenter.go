package crawl

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/doclocate"
	"github.com/fwojciec/doclocate/goquery"
)

// Document center AJAX endpoints, relative to the portal URL.
const (
	documentsEndpoint = "Home/Document_AjaxBinding"
	childrenEndpoint  = "Home/_AjaxLoading"
)

// Ensure DocumentCenterLocator implements doclocate.Locator at compile time.
var _ doclocate.Locator = (*DocumentCenterLocator)(nil)

// DocumentCenterLocator walks the folder tree of a document center portal
// through its AJAX endpoints and collects documents matching Extensions.
type DocumentCenterLocator struct {
	Target     string
	Extensions doclocate.ExtensionSet
	Fetcher    doclocate.Fetcher
	Logger     *slog.Logger
}

// NewDocumentCenterLocator creates a DocumentCenterLocator without logging.
func NewDocumentCenterLocator(target string, exts doclocate.ExtensionSet, fetcher doclocate.Fetcher) *DocumentCenterLocator {
	return &DocumentCenterLocator{Target: target, Extensions: exts, Fetcher: fetcher}
}

type folder struct {
	path string
	id   string
}

// Locate reads the top-level folders from the landing page, then walks the
// tree depth-first. A landing page that cannot be read yields an empty
// result; an endpoint failure empties only the affected folder.
func (l *DocumentCenterLocator) Locate(ctx context.Context) (*doclocate.Result, error) {
	logger := loggerOrDiscard(l.Logger)
	result := &doclocate.Result{Target: l.Target, Extensions: l.Extensions}
	logger.Info("starting locator", "target", l.Target, "extensions", l.Extensions.String())

	nodes, err := l.rootNodes(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("could not read document center", "url", l.Target, "err", err)
		return result, nil
	}

	roots := make([]folder, 0, len(nodes))
	for _, n := range nodes {
		roots = append(roots, folder{path: n.Label, id: n.ID})
	}
	frontier := NewFrontier[folder](DepthFirst)
	frontier.Push(roots...)

	visited := make(map[string]struct{})
	docsURL := doclocate.ResolveURL(l.Target, documentsEndpoint)
	childrenURL := doclocate.ResolveURL(l.Target, childrenEndpoint)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, ok := frontier.Pop()
		if !ok {
			break
		}
		if _, ok := visited[f.id]; ok {
			continue
		}
		visited[f.id] = struct{}{}
		result.Visited = append(result.Visited, f.id)
		logger.Info("visiting folder", "dir", f.path, "id", f.id)

		docs, err := l.documents(ctx, docsURL, f.id)
		if err != nil {
			logger.Error("could not list documents", "dir", f.path, "id", f.id, "err", err)
		}
		for _, d := range docs {
			ext := "." + strings.ToLower(d.FileType)
			if !l.Extensions.Contains(ext) {
				continue
			}
			loc := doclocate.NewLocation(l.Target, docsURL, doclocate.ResolveURL(l.Target, d.URL), ext)
			loc.Extra["dir"] = f.path
			loc.Extra["name"] = d.DisplayName
			result.Locations = append(result.Locations, loc)
		}
		logger.Info("current total found doc locations", "located", len(result.Locations))

		children, err := l.children(ctx, childrenURL, f.id)
		if err != nil {
			logger.Error("could not list subfolders", "dir", f.path, "id", f.id, "err", err)
		}
		var next []folder
		for _, c := range children {
			if _, ok := visited[string(c.Value)]; ok {
				continue
			}
			next = append(next, folder{path: path.Join(f.path, c.Text), id: string(c.Value)})
		}
		frontier.Push(next...)
	}

	logger.Info("completed locating",
		"visited", len(result.Visited),
		"located", len(result.Locations),
	)
	return result, nil
}

func (l *DocumentCenterLocator) rootNodes(ctx context.Context) ([]goquery.TreeNode, error) {
	res, err := l.Fetcher.Fetch(ctx, l.Target)
	if err != nil {
		return nil, err
	}
	page, err := goquery.ParsePage(res)
	if err != nil {
		return nil, err
	}
	return page.TreeNodes(), nil
}

type documentList struct {
	Data []document `json:"data"`
}

type document struct {
	FileType    string `json:"FileType"`
	URL         string `json:"URL"`
	DisplayName string `json:"DisplayName"`
}

func (l *DocumentCenterLocator) documents(ctx context.Context, endpoint, id string) ([]document, error) {
	res, err := l.Fetcher.Post(ctx, endpoint, url.Values{"id": {id}}, map[string]string{
		"X-Requested-With": "XMLHttpRequest",
		"getDocuments":     "1",
	})
	if err != nil {
		return nil, err
	}
	var list documentList
	if err := json.Unmarshal(res.Body, &list); err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "malformed document list from %s: %v", endpoint, err)
	}
	return list.Data, nil
}

type childNode struct {
	Text  string `json:"Text"`
	Value nodeID `json:"Value"`
}

// nodeID is a tree node id that the portal encodes as either a JSON string
// or a JSON number.
type nodeID string

func (id *nodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = nodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = nodeID(n.String())
	return nil
}

func (l *DocumentCenterLocator) children(ctx context.Context, endpoint, id string) ([]childNode, error) {
	res, err := l.Fetcher.Post(ctx, endpoint, url.Values{"Value": {id}}, nil)
	if err != nil {
		return nil, err
	}
	var nodes []childNode
	if err := json.Unmarshal(res.Body, &nodes); err != nil {
		return nil, doclocate.Errorf(doclocate.EINVALID, "malformed subfolder list from %s: %v", endpoint, err)
	}
	return nodes, nil
}
