package service

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/svthalia/concrexit-sub001/models"
)

// MaxBatchSize is the largest id list the remote batch endpoint accepts.
const MaxBatchSize = 100

// Keys used in document line payloads.
const (
	lineIDKey      = "id"
	lineDestroyKey = "_destroy"
)

// DiffResources compares the remote ids known locally with a full remote
// collection. Every payload that is known locally is reported as changed,
// since without versions there is no cheaper way to tell.
func DiffResources(oldIDs []models.RemoteID, payloads []models.Payload) models.ResourceDiff {
	known := make(map[models.RemoteID]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		known[id] = struct{}{}
	}

	var diff models.ResourceDiff
	seen := make(map[models.RemoteID]struct{}, len(payloads))
	for _, p := range payloads {
		id, ok := p.RemoteID()
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok = known[id]; ok {
			diff.Changed = append(diff.Changed, p)
		} else {
			diff.Added = append(diff.Added, p)
		}
	}

	for _, id := range oldIDs {
		if _, ok := seen[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}
	return diff
}

// DiffResourceVersions partitions the ids of two {id: version} maps. Ids
// present in both with equal versions are left out. Each list is sorted.
func DiffResourceVersions(oldMap, newMap map[models.RemoteID]int64) models.ResourceVersionDiff {
	var diff models.ResourceVersionDiff
	for id, version := range newMap {
		old, ok := oldMap[id]
		switch {
		case !ok:
			diff.Added = append(diff.Added, id)
		case old != version:
			diff.Changed = append(diff.Changed, id)
		}
	}
	for id := range oldMap {
		if _, ok := newMap[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	slices.Sort(diff.Added)
	slices.Sort(diff.Changed)
	slices.Sort(diff.Removed)
	return diff
}

// CalcDataDiff returns the keys of local whose value is missing from remote
// or differs from it. Local values win. Numbers compare by their decimal
// form, so 12, 12.0, json.Number("12") and "12" are equal.
func CalcDataDiff(remote, local models.Payload) models.Payload {
	diff := models.Payload{}
	for key, value := range local {
		remoteValue, ok := remote[key]
		if !ok || !cmp.Equal(normalizeValue(remoteValue), normalizeValue(value)) {
			diff[key] = value
		}
	}
	return diff
}

// normalizeValue rewrites numbers and remote ids as strings, recursively.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := t.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case models.RemoteID:
		return t.String()
	case models.Payload:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case []models.Payload:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeMap(t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeValue(t[i])
		}
		return out
	}
	return v
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

// DiffDocumentLines derives the nested line list to send for a document.
//
// Remote lines missing locally, or flagged for deletion, become
// {id, _destroy: true}. Lines known on both sides contribute their field diff
// with the id re-attached, and are left out when unchanged. Local lines
// without an id are new and are appended as they are.
func DiffDocumentLines(remoteLines, localLines []models.Payload) []models.Payload {
	localByID := make(map[models.RemoteID]models.Payload, len(localLines))
	var added []models.Payload
	for _, line := range localLines {
		id, ok := line.RemoteID()
		if !ok {
			added = append(added, line.Without(lineIDKey))
			continue
		}
		localByID[id] = line
	}

	diff := make([]models.Payload, 0, len(remoteLines)+len(added))
	for _, remoteLine := range remoteLines {
		id, ok := remoteLine.RemoteID()
		if !ok {
			continue
		}

		localLine, ok := localByID[id]
		if !ok || isDestroyed(localLine) {
			diff = append(diff, destroyLine(id))
			continue
		}

		lineDiff := CalcDataDiff(remoteLine, localLine.Without(lineIDKey))
		if len(lineDiff) == 0 {
			continue
		}
		lineDiff[lineIDKey] = id.String()
		diff = append(diff, lineDiff)
	}

	return append(diff, added...)
}

func destroyLine(id models.RemoteID) models.Payload {
	return models.Payload{lineIDKey: id.String(), lineDestroyKey: true}
}

func isDestroyed(line models.Payload) bool {
	destroy, _ := line[lineDestroyKey].(bool)
	return destroy
}

// chunkIDs splits ids into consecutive chunks of at most size ids.
func chunkIDs(ids []models.RemoteID, size int) [][]models.RemoteID {
	if size <= 0 {
		size = MaxBatchSize
	}

	chunks := make([][]models.RemoteID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
