// Package fsutil discovers recording data on disk. The expected layout is
// <root>/<session>/<segment>/<camera>.csv, one marker table per camera.
// Discovery operates on an fs.FS so tests can use fstest.MapFS.
package fsutil

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// CameraFile is one camera's marker table within a recording segment.
type CameraFile struct {
	Camera string
	Path   string // relative to the discovery root
}

// SegmentFiles lists the camera tables found for one recording segment.
// Cameras are sorted by name so fusion input order is deterministic.
type SegmentFiles struct {
	Session string
	Segment string
	Cameras []CameraFile
}

// DiscoverSegments walks fsys for session/segment/camera.csv entries.
// Segments with no CSV files are skipped. Results are sorted by session
// then segment.
func DiscoverSegments(fsys fs.FS) ([]SegmentFiles, error) {
	var out []SegmentFiles

	sessions, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if !sess.IsDir() {
			continue
		}
		segments, err := fs.ReadDir(fsys, sess.Name())
		if err != nil {
			return nil, err
		}
		for _, seg := range segments {
			if !seg.IsDir() {
				continue
			}
			segDir := path.Join(sess.Name(), seg.Name())
			entries, err := fs.ReadDir(fsys, segDir)
			if err != nil {
				return nil, err
			}
			sf := SegmentFiles{Session: sess.Name(), Segment: seg.Name()}
			for _, e := range entries {
				if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".csv") {
					continue
				}
				sf.Cameras = append(sf.Cameras, CameraFile{
					Camera: strings.TrimSuffix(e.Name(), path.Ext(e.Name())),
					Path:   path.Join(segDir, e.Name()),
				})
			}
			if len(sf.Cameras) == 0 {
				continue
			}
			sort.Slice(sf.Cameras, func(i, j int) bool { return sf.Cameras[i].Camera < sf.Cameras[j].Camera })
			out = append(out, sf)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Session != out[j].Session {
			return out[i].Session < out[j].Session
		}
		return out[i].Segment < out[j].Segment
	})
	return out, nil
}
