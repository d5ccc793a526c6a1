package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/models"
)

// DocumentType is a [ResourceType] whose records own line items.
type DocumentType interface {
	ResourceType

	// LineKind is the local kind of the document's lines.
	LineKind() string
	LinesConfig() models.DocumentLinesConfig
	// DestroyLine deletes line remotely through its document, then locally.
	DestroyLine(ctx context.Context, line *models.Resource) error
}

// compositeResourceType is a synchronizable document whose lines are sent
// and received as a nested list of the document payload.
type compositeResourceType struct {
	*synchronizableResourceType
	lines      models.DocumentLinesConfig
	lineMapper Mapper
}

// NewCompositeResourceType returns a [DocumentType] for cfg whose lines are
// described by lines.
func NewCompositeResourceType(
	cfg models.ResourceTypeConfig,
	lines models.DocumentLinesConfig,
	mapper, lineMapper Mapper,
	client adapter.RemoteClient,
	repo store.ResourceRepository,
) DocumentType {
	t := &compositeResourceType{
		synchronizableResourceType: newSynchronizableResourceType(cfg, mapper, client, repo),
		lines:                      lines.WithDefaults(),
		lineMapper:                 lineMapper,
	}
	t.codec = t
	return t
}

func (t *compositeResourceType) Variant() Variant { return VariantComposite }

func (t *compositeResourceType) LineKind() string { return t.lines.LineKind }

func (t *compositeResourceType) LinesConfig() models.DocumentLinesConfig { return t.lines }

// serialize embeds every line of res: a bare {id} for synced lines, a
// destroy marker for lines flagged for deletion and the full payload for
// new or changed lines.
func (t *compositeResourceType) serialize(ctx context.Context, res *models.Resource) (models.Payload, error) {
	payload, err := t.mapper.Serialize(res)
	if err != nil {
		return nil, err
	}

	lines, err := t.repo.ListLines(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Payload, 0, len(lines))
	for _, line := range lines {
		entry, ok, lineErr := t.lineEntry(line)
		if lineErr != nil {
			return nil, lineErr
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	if len(entries) > 0 {
		payload[t.lines.LinesAttributesKey] = entries
	}
	return payload, nil
}

func (t *compositeResourceType) lineEntry(line *models.Resource) (models.Payload, bool, error) {
	switch {
	case line.PendingDelete && !line.HasRemoteID():
		return nil, false, nil
	case line.PendingDelete:
		return destroyLine(line.RemoteIDValue()), true, nil
	case line.HasRemoteID() && line.Synced:
		return models.Payload{lineIDKey: line.RemoteIDValue().String()}, true, nil
	}

	entry, err := t.lineMapper.Serialize(line)
	if err != nil {
		return nil, false, err
	}
	if line.HasRemoteID() {
		entry[lineIDKey] = line.RemoteIDValue().String()
	}
	return entry, true, nil
}

// calcDataDiff diffs the document fields and recurses into the line list.
func (t *compositeResourceType) calcDataDiff(remote, local models.Payload) models.Payload {
	diff := CalcDataDiff(
		remote.Without(t.lines.LinesKey, t.lines.LinesAttributesKey),
		local.Without(t.lines.LinesKey, t.lines.LinesAttributesKey),
	)

	localLines, ok := local[t.lines.LinesAttributesKey]
	if !ok {
		return diff
	}

	remoteLines, ok := remote[t.lines.LinesKey]
	if !ok {
		remoteLines = remote[t.lines.LinesAttributesKey]
	}

	lineDiff := DiffDocumentLines(models.PayloadList(remoteLines), models.PayloadList(localLines))
	if len(lineDiff) > 0 {
		diff[t.lines.LinesAttributesKey] = lineDiff
	}
	return diff
}

func (t *compositeResourceType) dirty(ctx context.Context, res *models.Resource) (bool, error) {
	if !res.Synced {
		return true, nil
	}
	return t.linesDirty(ctx, res)
}

func (t *compositeResourceType) linesDirty(ctx context.Context, res *models.Resource) (bool, error) {
	lines, err := t.repo.ListLines(ctx, res.ID)
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		if !line.Synced || line.PendingDelete {
			return true, nil
		}
	}
	return false, nil
}

func (t *compositeResourceType) applyFields(res *models.Resource, payload models.Payload) error {
	return t.resourceType.applyFields(res, payload.Without(t.lines.LinesKey))
}

// afterSave reconciles the stored lines of res with the line list of
// payload. Known ids are updated and lines gone remotely are deleted.
//
// After a push, remote ids that were not known before the push are handed
// to the local lines that had no id yet. The response does not say which
// returned line belongs to which local one, so this is only exact for one
// new line at a time; more are paired in position order.
func (t *compositeResourceType) afterSave(ctx context.Context, res *models.Resource, payload models.Payload, pushed bool) error {
	log := logger.FromContext(ctx)

	raw, ok := payload[t.lines.LinesKey]
	if !ok {
		return nil
	}
	remoteLines := models.PayloadList(raw)

	existing, err := t.repo.ListLines(ctx, res.ID)
	if err != nil {
		return err
	}

	known := make(map[models.RemoteID]*models.Resource, len(existing))
	var pending []*models.Resource
	for _, line := range existing {
		switch {
		case line.HasRemoteID():
			known[line.RemoteIDValue()] = line
		case !line.PendingDelete:
			pending = append(pending, line)
		}
	}

	var newIDs int
	for _, remoteLine := range remoteLines {
		if id, ok := remoteLine.RemoteID(); ok {
			if _, ok = known[id]; !ok {
				newIDs++
			}
		}
	}
	if pushed && newIDs > 1 && len(pending) > 1 {
		log.Warn().
			Str("func", "compositeResourceType.afterSave").
			Str("kind", t.cfg.Kind).
			Str("remote_id", res.RemoteIDValue().String()).
			Int("new_lines", newIDs).
			Msg("several new lines created at once, matching them by position")
	}

	seen := make(map[models.RemoteID]struct{}, len(remoteLines))
	for position, remoteLine := range remoteLines {
		id, ok := remoteLine.RemoteID()
		if !ok {
			continue
		}
		seen[id] = struct{}{}

		line, ok := known[id]
		switch {
		case ok:
		case pushed && len(pending) > 0:
			line, pending = pending[0], pending[1:]
		default:
			line = t.newLine(res.ID)
		}

		line.Position = position
		if err = t.applyLine(ctx, line, remoteLine); err != nil {
			return err
		}
	}

	for _, line := range existing {
		gone := line.HasRemoteID() && !hasID(seen, line.RemoteIDValue())
		if gone || (line.PendingDelete && !line.HasRemoteID()) {
			if err = t.repo.Delete(ctx, line.ID); err != nil && !errors.Is(err, store.ErrResourceNotFound) {
				return err
			}
		}
	}

	if pushed && len(pending) > 0 {
		log.Warn().
			Str("func", "compositeResourceType.afterSave").
			Str("kind", t.cfg.Kind).
			Int("unmatched", len(pending)).
			Msg("new lines were not returned by the remote")
	}
	return nil
}

func hasID(set map[models.RemoteID]struct{}, id models.RemoteID) bool {
	_, ok := set[id]
	return ok
}

func (t *compositeResourceType) newLine(parentID uuid.UUID) *models.Resource {
	line := models.NewResource(t.lines.LineKind, t.lines.LineBaseKind)
	line.ParentID = &parentID
	return line
}

func (t *compositeResourceType) applyLine(ctx context.Context, line *models.Resource, payload models.Payload) error {
	if id, ok := payload.RemoteID(); ok {
		line.SetRemoteID(id)
	}
	if version, ok := payload.Version(); ok {
		line.SetRemoteVersion(version)
	}
	if err := t.lineMapper.Apply(line, payload); err != nil {
		return err
	}
	line.Synced = true
	line.PendingDelete = false
	return t.performSave(ctx, line)
}

// PendingPush returns the unsynced documents together with the documents
// owning an unsynced line.
func (t *compositeResourceType) PendingPush(ctx context.Context) ([]*models.Resource, error) {
	docs, err := t.repo.ListPending(ctx, t.cfg.Kind)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(docs))
	for _, doc := range docs {
		seen[doc.ID] = struct{}{}
	}

	lines, err := t.repo.ListPending(ctx, t.lines.LineKind)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if !line.IsLine() {
			continue
		}
		if _, ok := seen[*line.ParentID]; ok {
			continue
		}
		parent, getErr := t.repo.Get(ctx, *line.ParentID)
		if errors.Is(getErr, store.ErrResourceNotFound) {
			continue
		}
		if getErr != nil {
			return nil, getErr
		}
		seen[parent.ID] = struct{}{}
		docs = append(docs, parent)
	}
	return docs, nil
}

// PushDiffToRemote pushes the whole document when one of its lines changed.
func (t *compositeResourceType) PushDiffToRemote(ctx context.Context, res *models.Resource) error {
	dirty, err := t.linesDirty(ctx, res)
	if err != nil {
		return err
	}
	if dirty {
		return t.PushToRemote(ctx, res, nil)
	}
	return t.resourceType.PushDiffToRemote(ctx, res)
}

// DestroyLine implements [DocumentType]. Lines of a document known remotely
// are removed with an explicit destroy marker, since leaving a line out of
// the document payload does not delete it.
func (t *compositeResourceType) DestroyLine(ctx context.Context, line *models.Resource) error {
	if !line.IsLine() || line.Kind != t.lines.LineKind {
		return fmt.Errorf("destroy %s %s: %w", line.Kind, line.ID, ErrNotALine)
	}

	parent, err := t.repo.Get(ctx, *line.ParentID)
	if err != nil && !errors.Is(err, store.ErrResourceNotFound) {
		return err
	}

	if parent != nil && parent.HasRemoteID() && line.HasRemoteID() {
		if !t.cfg.CanWrite {
			return fmt.Errorf("destroy %s %s: %w", line.Kind, line.ID, ErrReadOnlyResource)
		}
		data := models.Payload{
			t.lines.LinesAttributesKey: []models.Payload{destroyLine(line.RemoteIDValue())},
		}
		if err = t.PushToRemote(ctx, parent, data); err != nil {
			return err
		}
	}

	err = t.repo.Delete(ctx, line.ID)
	if err != nil && !errors.Is(err, store.ErrResourceNotFound) {
		return err
	}
	return nil
}

// PurgeOrphans also removes lines that never got a remote id.
func (t *compositeResourceType) PurgeOrphans(ctx context.Context) (int64, error) {
	docs, err := t.repo.DeleteWithoutRemoteID(ctx, t.cfg.Kind)
	if err != nil {
		return docs, err
	}
	lines, err := t.repo.DeleteWithoutRemoteID(ctx, t.lines.LineKind)
	return docs + lines, err
}
