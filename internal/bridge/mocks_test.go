package bridge

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/appshell/internal/platform"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Capabilities() types.Capabilities {
	args := m.Called()
	return args.Get(0).(types.Capabilities)
}

func (m *MockBackend) ShowOpenDialog(ctx context.Context, req platform.OpenDialog) ([]string, errcode.Code) {
	args := m.Called(ctx, req)
	files, _ := args.Get(0).([]string)
	return files, args.Get(1).(errcode.Code)
}

func (m *MockBackend) ShowSaveDialog(ctx context.Context, req platform.SaveDialog) (string, errcode.Code) {
	args := m.Called(ctx, req)
	return args.String(0), args.Get(1).(errcode.Code)
}

func (m *MockBackend) IsNetworkDrive(path string) (bool, errcode.Code) {
	args := m.Called(path)
	return args.Bool(0), args.Get(1).(errcode.Code)
}

func (m *MockBackend) ReadDir(path string) ([]string, errcode.Code) {
	args := m.Called(path)
	names, _ := args.Get(0).([]string)
	return names, args.Get(1).(errcode.Code)
}

func (m *MockBackend) ReadDirWithStats(path string) ([]string, []types.FileStat, errcode.Code) {
	args := m.Called(path)
	names, _ := args.Get(0).([]string)
	stats, _ := args.Get(1).([]types.FileStat)
	return names, stats, args.Get(2).(errcode.Code)
}

func (m *MockBackend) MakeDir(path string, mode os.FileMode) errcode.Code {
	return m.Called(path, mode).Get(0).(errcode.Code)
}

func (m *MockBackend) Rename(oldPath, newPath string) errcode.Code {
	return m.Called(oldPath, newPath).Get(0).(errcode.Code)
}

func (m *MockBackend) Stat(path string) (types.FileStat, errcode.Code) {
	args := m.Called(path)
	stat, _ := args.Get(0).(types.FileStat)
	return stat, args.Get(1).(errcode.Code)
}

func (m *MockBackend) ReadFile(path, encoding string) (types.ReadResult, errcode.Code) {
	args := m.Called(path, encoding)
	res, _ := args.Get(0).(types.ReadResult)
	return res, args.Get(1).(errcode.Code)
}

func (m *MockBackend) WriteFile(path, data, encoding string, preserveBOM bool) errcode.Code {
	return m.Called(path, data, encoding, preserveBOM).Get(0).(errcode.Code)
}

func (m *MockBackend) Chmod(path string, mode os.FileMode) errcode.Code {
	return m.Called(path, mode).Get(0).(errcode.Code)
}

func (m *MockBackend) Unlink(path string) errcode.Code {
	return m.Called(path).Get(0).(errcode.Code)
}

func (m *MockBackend) MoveToTrash(ctx context.Context, path string) errcode.Code {
	return m.Called(ctx, path).Get(0).(errcode.Code)
}

func (m *MockBackend) CopyFile(src, dest string) errcode.Code {
	return m.Called(src, dest).Get(0).(errcode.Code)
}

func (m *MockBackend) OpenURL(ctx context.Context, url string) errcode.Code {
	return m.Called(ctx, url).Get(0).(errcode.Code)
}

func (m *MockBackend) ShowFolder(ctx context.Context, path string) errcode.Code {
	return m.Called(ctx, path).Get(0).(errcode.Code)
}

func (m *MockBackend) OpenLiveBrowser(ctx context.Context, url string, remoteDebugging bool) errcode.Code {
	return m.Called(ctx, url, remoteDebugging).Get(0).(errcode.Code)
}

func (m *MockBackend) CloseLiveBrowser(ctx context.Context) errcode.Code {
	return m.Called(ctx).Get(0).(errcode.Code)
}

func (m *MockBackend) InstallCommandLine(ctx context.Context) errcode.Code {
	return m.Called(ctx).Get(0).(errcode.Code)
}

func (m *MockBackend) MachineHash(ctx context.Context) (string, errcode.Code) {
	args := m.Called(ctx)
	return args.String(0), args.Get(1).(errcode.Code)
}

type MockApp struct {
	mock.Mock
}

func (m *MockApp) Quit() {
	m.Called()
}

func (m *MockApp) AbortQuit() bool {
	return m.Called().Bool(0)
}

func (m *MockApp) ElapsedMilliseconds() int64 {
	return m.Called().Get(0).(int64)
}

func (m *MockApp) RemoteDebuggingPort() int {
	return m.Called().Int(0)
}

func (m *MockApp) PendingFiles() string {
	return m.Called().String(0)
}

func (m *MockApp) DroppedFiles() string {
	return m.Called().String(0)
}

func (m *MockApp) SupportDirectory() string {
	return m.Called().String(0)
}

func (m *MockApp) DocumentsDirectory() string {
	return m.Called().String(0)
}

func (m *MockApp) Language() string {
	return m.Called().String(0)
}

func (m *MockApp) ZoomLevel() (float64, errcode.Code) {
	args := m.Called()
	return args.Get(0).(float64), args.Get(1).(errcode.Code)
}

func (m *MockApp) SetZoomLevel(level float64) errcode.Code {
	return m.Called(level).Get(0).(errcode.Code)
}
