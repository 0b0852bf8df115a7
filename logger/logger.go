package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	AppLogger     *log.Logger
	CaptureLogger *log.Logger
	ErrorLogger   *log.Logger

	logLevel       string
	appLogFile     *os.File
	captureLogFile *os.File
	initialized    bool
)

func InitGlobalLoggers(appLogPath, captureLogPath, level string) error {
	if initialized && appLogFile != nil && captureLogFile != nil && strings.ToUpper(level) == logLevel {
		// Already initialized with same settings, perhaps a redundant call.
		return nil
	}
	// If files are open, close them before re-initializing
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if captureLogFile != nil {
		captureLogFile.Close()
		captureLogFile = nil
	}

	logLevel = strings.ToUpper(level)
	if logLevel == "" {
		logLevel = "INFO"
	}

	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualAppLogPath := appLogPath
	appLogDir := filepath.Dir(appLogPath)
	var appLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(appLogDir, 0750); err != nil {
		ErrorLogger.Printf("Failed to create app log directory %s: %v. App logs (Info/Debug) will be discarded.", appLogDir, err)
		actualAppLogPath = "(discarded)"
	} else {
		var errApp error
		appLogFile, errApp = os.OpenFile(appLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errApp != nil {
			ErrorLogger.Printf("Failed to open app log file %s: %v. App logs (Info/Debug) will be discarded.", appLogPath, errApp)
			actualAppLogPath = "(discarded)"
		} else {
			appLogWriter = appLogFile
		}
	}
	AppLogger = log.New(appLogWriter, "APP: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualCaptureLogPath := captureLogPath
	captureLogDir := filepath.Dir(captureLogPath)
	var captureLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(captureLogDir, 0750); err != nil {
		ErrorLogger.Printf("Failed to create capture log directory %s: %v. Capture logs (Info/Debug) will be discarded.", captureLogDir, err)
		actualCaptureLogPath = "(discarded)"
	} else {
		var errCapture error
		captureLogFile, errCapture = os.OpenFile(captureLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errCapture != nil {
			ErrorLogger.Printf("Failed to open capture log file %s: %v. Capture logs (Info/Debug) will be discarded.", captureLogPath, errCapture)
			actualCaptureLogPath = "(discarded)"
		} else {
			captureLogWriter = captureLogFile
		}
	}
	CaptureLogger = log.New(captureLogWriter, "CAPTURE: ", log.Ldate|log.Ltime|log.Lshortfile)

	if !initialized { // Print init messages only once
		AppLogger.Printf("App logger initialized. Log level: %s. Output file: %s", logLevel, actualAppLogPath)
		CaptureLogger.Printf("Capture logger initialized. Log level: %s. Output file: %s", logLevel, actualCaptureLogPath)
	}
	initialized = true
	return nil
}

func Info(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if AppLogger != nil && logLevel == "DEBUG" {
		AppLogger.Printf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "WARN" || logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Print(message)
	}
	if AppLogger != nil && appLogFile != nil {
		AppLogger.Print(message)
	}
}

func Fatal(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Fatal(message)
	} else {
		log.Fatal(message)
	}
}

func CaptureInfo(format string, v ...interface{}) {
	if CaptureLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		CaptureLogger.Printf(format, v...)
	}
}

func CaptureDebug(format string, v ...interface{}) {
	if CaptureLogger != nil && logLevel == "DEBUG" {
		CaptureLogger.Printf(format, v...)
	}
}

func CaptureWarn(format string, v ...interface{}) {
	if CaptureLogger != nil && (logLevel == "WARN" || logLevel == "INFO" || logLevel == "DEBUG") {
		CaptureLogger.Printf(format, v...)
	}
}

func CaptureError(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil { // All errors go to stderr via ErrorLogger
		ErrorLogger.Print(message)
	}
	if CaptureLogger != nil && captureLogFile != nil { // Also write to capture log file
		CaptureLogger.Print(message)
	}
}

func CloseLogFiles() {
	if appLogFile != nil {
		AppLogger.Println("Closing app log file.")
		appLogFile.Close()
		appLogFile = nil // Prevent double close
	}
	if captureLogFile != nil {
		CaptureLogger.Println("Closing capture log file.")
		captureLogFile.Close()
		captureLogFile = nil // Prevent double close
	}
	initialized = false // Allow re-initialization if needed (e.g. tests)
}
