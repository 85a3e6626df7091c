// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/backup"
	"github.com/fieldline/extman/fetch"
	"github.com/fieldline/extman/process"
)

func TestUpdateExecute(t *testing.T) {
	errWrong := fmt.Errorf("something went wrong")

	type mocks struct {
		backend *backend.MockPackageBackend
		runner  *process.MockRunner
		fs      afero.Fs
	}
	tests := []struct {
		name      string
		withState bool // seed an ignore-file plus settings to archive
		readOnly  bool // make the fs unwritable so archiving fails
		setup     func(mocks)
		wantErr   assert.ErrorAssertionFunc
		verify    func(t *testing.T, fs afero.Fs)
	}{
		{
			name:      "running extension is backed up, updated, restored, resumed",
			withState: true,
			setup: func(mocks mocks) {
				mocks.runner.EXPECT().Status(extName).Return(process.Running)
				mocks.runner.EXPECT().Stop(extName, false).Return(nil)
				mocks.backend.EXPECT().Update(gomock.Any(), extName).DoAndReturn(
					func(context.Context, string) error {
						// The update wipes the working directory state.
						return mocks.fs.RemoveAll(workingDir + "/settings.json")
					})
				mocks.runner.EXPECT().Start(gomock.Any(), extName, workingDir, process.IOCapture).Return(nil)
			},
			wantErr: assert.NoError,
			verify: func(t *testing.T, fs afero.Fs) {
				contents, err := afero.ReadFile(fs, workingDir+"/settings.json")
				assert.NoError(t, err)
				assert.Equal(t, "prior-state", string(contents))
			},
		},
		{
			name:      "stopped extension stays stopped",
			withState: true,
			setup: func(mocks mocks) {
				mocks.runner.EXPECT().Status(extName).Return(process.Stopped)
				mocks.runner.EXPECT().Stop(extName, false).Return(nil)
				mocks.backend.EXPECT().Update(gomock.Any(), extName).Return(nil)
				// No Start expectation.
			},
			wantErr: assert.NoError,
		},
		{
			name: "clean directory skips archiving",
			setup: func(mocks mocks) {
				mocks.runner.EXPECT().Status(extName).Return(process.Running)
				mocks.runner.EXPECT().Stop(extName, false).Return(nil)
				mocks.backend.EXPECT().Update(gomock.Any(), extName).Return(nil)
				mocks.runner.EXPECT().Start(gomock.Any(), extName, workingDir, process.IOCapture).Return(nil)
			},
			wantErr: assert.NoError,
			verify: func(t *testing.T, fs afero.Fs) {
				ok, err := afero.Exists(fs, "/data/backups/some-ext.tar.gz")
				assert.NoError(t, err)
				assert.False(t, ok)
			},
		},
		{
			name:      "archive failure does not block the update",
			withState: true,
			readOnly:  true,
			setup: func(mocks mocks) {
				mocks.runner.EXPECT().Status(extName).Return(process.Running)
				mocks.runner.EXPECT().Stop(extName, false).Return(nil)
				mocks.backend.EXPECT().Update(gomock.Any(), extName).Return(nil)
				mocks.runner.EXPECT().Start(gomock.Any(), extName, workingDir, process.IOCapture).Return(nil)
			},
			wantErr: assert.NoError,
		},
		{
			name:      "backend failure surfaces and skips resume",
			withState: true,
			setup: func(mocks mocks) {
				mocks.runner.EXPECT().Status(extName).Return(process.Running)
				mocks.runner.EXPECT().Stop(extName, false).Return(nil)
				mocks.backend.EXPECT().Update(gomock.Any(), extName).Return(errWrong)
			},
			wantErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				return assert.Equal(t, errWrong, err)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks{
				backend: backend.NewMockPackageBackend(ctrl),
				runner:  process.NewMockRunner(ctrl),
				fs:      afero.NewMemMapFs(),
			}

			if test.withState {
				assert.NoError(t, afero.WriteFile(m.fs, workingDir+"/.npmignore", []byte("settings.json\n"), 0o644))
				assert.NoError(t, afero.WriteFile(m.fs, workingDir+"/settings.json", []byte("prior-state"), 0o644))
			}
			if test.readOnly {
				m.fs = afero.NewReadOnlyFs(m.fs)
			}

			test.setup(m)

			fetcher := fetch.NewMockClient(ctrl)
			fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			wf := NewUpdate(UpdateConfig{
				Name:      extName,
				Extension: testExt,
				Backend:   m.backend,
				Runner:    m.runner,
				Archiver:  backup.NewArchiver(backup.ArchiverConfig{Fs: m.fs, BackupsDir: "/data/backups"}),
				PostInstall: NewPostInstall(PostInstallConfig{
					Tracker: &stubRefresher{},
					Package: m.backend,
					Fetch:   fetcher,
					Fs:      m.fs,
				}),
				WorkingDir: workingDir,
				IOMode:     process.IOCapture,
			})

			test.wantErr(t, wf.Execute(context.Background()))
			if test.verify != nil {
				test.verify(t, m.fs)
			}
		})
	}
}
