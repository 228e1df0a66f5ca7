// Copyright 2025 lablink LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/lablink/datasync/pkg/executor"
	"github.com/lablink/datasync/pkg/task"
)

// 🧪 fakeSyncer records sync invocations.
type fakeSyncer struct {
	calls []syncCall
	err   error
}

type syncCall struct {
	source, destination string
	flags               []string
}

func (f *fakeSyncer) Sync(ctx context.Context, source, destination string, flags []string) error {
	f.calls = append(f.calls, syncCall{source: source, destination: destination, flags: flags})
	return f.err
}

// 🧪 fakeArchiver records archive invocations.
type fakeArchiver struct {
	outputs []string
	err     error
}

func (f *fakeArchiver) Archive(ctx context.Context, source, output string) error {
	f.outputs = append(f.outputs, output)
	return f.err
}

// 🧪 fakePerms records chmod invocations.
type fakePerms struct {
	paths []string
	err   error
}

func (f *fakePerms) SetMode(ctx context.Context, path string, mode os.FileMode) error {
	f.paths = append(f.paths, path)
	return f.err
}

// 🧪 createTestEnv wires an executor against fakes under a temp root.
func createTestEnv(t *testing.T) (context.Context, string, *executor.Executor, *fakeSyncer, *fakeArchiver, *fakePerms) {
	t.Helper()

	root := t.TempDir()
	syncer := &fakeSyncer{}
	archiver := &fakeArchiver{}
	perms := &fakePerms{}

	exe, err := executor.New(executor.Options{
		Root:     root,
		Syncer:   syncer,
		Archiver: archiver,
		Perms:    perms,
	})
	require.NoError(t, err)

	return context.Background(), root, exe, syncer, archiver, perms
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := executor.New(executor.Options{})
	require.Error(t, err)
}

func TestExecute_Skip(t *testing.T) {
	ctx, root, exe, syncer, archiver, perms := createTestEnv(t)

	rec := task.Record{Project: "proj1", Source: "/src", Destination: "out"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveSkip})
	require.NoError(t, err)

	assert.Equal(t, "Skipping entry completely.", res.Message)
	assert.False(t, res.Warning)
	assert.DirExists(t, filepath.Join(root, "proj1", "out"))
	assert.Empty(t, syncer.calls)
	assert.Empty(t, archiver.outputs)
	assert.Empty(t, perms.paths)
}

func TestExecute_TransferDryRun(t *testing.T) {
	ctx, root, exe, syncer, _, _ := createTestEnv(t)

	rec := task.Record{
		Project: "proj1", Experiment: "exp1", Run: "run1",
		Source: "/src", Destination: "data",
	}
	d, err := task.Resolve("dryrun")
	require.NoError(t, err)

	res, err := exe.Execute(ctx, rec, d)
	require.NoError(t, err)
	assert.False(t, res.Warning)

	wantDest := filepath.Join(root, "proj1", "exp1", "run1", "data")
	assert.DirExists(t, wantDest)
	assert.Equal(t, wantDest, res.DestinationPath)

	require.Len(t, syncer.calls, 1)
	assert.Equal(t, "/src", syncer.calls[0].source)
	assert.Equal(t, wantDest, syncer.calls[0].destination)
	assert.Equal(t, []string{"--dry-run"}, syncer.calls[0].flags)
}

func TestExecute_TransferCopyHasNoFlags(t *testing.T) {
	ctx, _, exe, syncer, _, _ := createTestEnv(t)

	rec := task.Record{Project: "p", Source: "/src", Destination: "d"}
	d, err := task.Resolve("copy")
	require.NoError(t, err)

	_, err = exe.Execute(ctx, rec, d)
	require.NoError(t, err)
	require.Len(t, syncer.calls, 1)
	assert.Empty(t, syncer.calls[0].flags)
}

func TestExecute_TransferEmptySource(t *testing.T) {
	ctx, root, exe, syncer, _, _ := createTestEnv(t)

	rec := task.Record{Project: "proj1", Destination: "data"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveTransfer})
	require.NoError(t, err)

	// Directory-only creation, no transfer.
	assert.DirExists(t, filepath.Join(root, "proj1", "data"))
	assert.Empty(t, syncer.calls)
	assert.False(t, res.Warning)
	assert.Contains(t, res.Message, "destination directory only")
}

func TestExecute_TransferFailureIsNonFatal(t *testing.T) {
	ctx, _, exe, syncer, _, _ := createTestEnv(t)
	syncer.err = errors.New("rsync exploded")

	rec := task.Record{Project: "p", Source: "/src", Destination: "d"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveTransfer})
	require.NoError(t, err)
	assert.True(t, res.Warning)
	assert.Contains(t, res.Message, "rsync exploded")
}

func TestExecute_Permissions(t *testing.T) {
	ctx, root, exe, _, _, perms := createTestEnv(t)

	rec := task.Record{Project: "proj1", Destination: "data"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectivePermissions})
	require.NoError(t, err)
	assert.False(t, res.Warning)

	wantDest := filepath.Join(root, "proj1", "data")
	require.Len(t, perms.paths, 1)
	assert.Equal(t, wantDest, perms.paths[0])
}

func TestExecute_PermissionsOnFileWarns(t *testing.T) {
	ctx, root, exe, _, _, perms := createTestEnv(t)

	// Destination path already exists as a plain file.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj1"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj1", "data"), []byte("x"), 0644))

	rec := task.Record{Project: "proj1", Destination: "data"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectivePermissions})
	require.NoError(t, err)

	assert.True(t, res.Warning)
	assert.Contains(t, res.Message, "not a directory")
	assert.Empty(t, perms.paths)

	// The file must survive untouched.
	data, err := os.ReadFile(filepath.Join(root, "proj1", "data"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestExecute_Archive(t *testing.T) {
	ctx, root, exe, _, archiver, _ := createTestEnv(t)

	rec := task.Record{Project: "proj1", Source: "/data/run42", Destination: "archives"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveArchive})
	require.NoError(t, err)
	assert.False(t, res.Warning)

	require.Len(t, archiver.outputs, 1)
	output := archiver.outputs[0]
	assert.Equal(t, output, res.ArchivePath)
	assert.True(t, strings.HasPrefix(output, filepath.Join(root, "proj1", "archives", "run42_")))
	assert.True(t, strings.HasSuffix(output, ".tar.gz"))
}

func TestExecute_ArchiveEmptySourceIsNoOp(t *testing.T) {
	ctx, _, exe, _, archiver, _ := createTestEnv(t)

	rec := task.Record{Project: "proj1", Destination: "archives"}
	res, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveArchive})
	require.NoError(t, err)

	assert.True(t, res.Warning)
	assert.Empty(t, archiver.outputs)
	assert.Contains(t, res.Message, "no archive created")
}

func TestExecute_ArchiveFailureIsFatal(t *testing.T) {
	ctx, _, exe, _, archiver, _ := createTestEnv(t)
	archiver.err = errors.New("tar exploded")

	rec := task.Record{Project: "proj1", Source: "/data/run42", Destination: "archives"}
	_, err := exe.Execute(ctx, rec, task.Directive{Kind: task.DirectiveArchive})
	require.ErrorIs(t, err, executor.ErrArchiveFailed)
}
