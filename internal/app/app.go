package app

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/journeys/internal/journey"
	"github.com/nhle/journeys/internal/keys"
	"github.com/nhle/journeys/internal/ui"
	helpview "github.com/nhle/journeys/internal/ui/help"
	"github.com/nhle/journeys/internal/ui/journeyform"
	"github.com/nhle/journeys/internal/ui/journeylist"
	"github.com/nhle/journeys/internal/ui/topictree"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewJourneys ViewState = iota
	ViewTree
	ViewJourneyForm
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the journey service.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	svc          *journey.Service
	log          *slog.Logger
	keys         *keys.KeyMap
	journeyList  journeylist.Model
	treeView     topictree.Model
	formView     journeyform.Model
	helpView     helpview.Model
	ready        bool
	status       string
}

// New creates a new root application model backed by svc.
func New(svc *journey.Service, log *slog.Logger) Model {
	k := keys.DefaultKeyMap()
	if log == nil {
		log = slog.Default()
	}

	return Model{
		currentView: ViewJourneys,
		svc:         svc,
		log:         log,
		keys:        k,
		journeyList: journeylist.New(k, 80, 24),
		treeView:    topictree.New(k, 80, 24),
		formView:    journeyform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
	}
}

// Init loads the journey list.
func (m Model) Init() tea.Cmd {
	return m.loadJourneys()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.journeyList.SetSize(contentWidth, contentHeight)
		m.treeView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case journeysLoadedMsg:
		if msg.err != nil {
			m.status = "loading journeys: " + msg.err.Error()
			return m, nil
		}
		cmd := m.journeyList.SetJourneys(msg.journeys)
		return m, cmd

	case journeyLoadedMsg:
		if msg.err != nil {
			m.log.Error("loading journey", "journey_id", msg.journeyID, "err", msg.err)
			m.status = "loading journey: " + msg.err.Error()
			m.currentView = ViewJourneys
			return m, m.loadJourneys()
		}
		m.treeView.SetJourney(*msg.journey, msg.tree)
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.treeView.SetError(ui.DescribeError(msg.err, m.treeView.Tree()))
		} else {
			m.treeView.SetMessage(msg.message)
		}
		return m, m.loadJourney(m.treeView.Journey().ID)

	case journeyCreatedMsg:
		if msg.err != nil {
			m.status = "creating journey: " + msg.err.Error()
			return m, m.loadJourneys()
		}
		m.status = ""
		m.currentView = ViewTree
		return m, m.loadJourney(msg.journeyID)

	case journeylist.SelectedJourneyMsg:
		m.status = ""
		m.currentView = ViewTree
		m.treeView.SetMessage("")
		return m, m.loadJourney(msg.JourneyID)

	case journeylist.NewJourneyMsg:
		m.previousView = m.currentView
		m.currentView = ViewJourneyForm
		cmd := m.formView.Start()
		return m, cmd

	case journeyform.SubmittedMsg:
		m.currentView = ViewJourneys
		return m, m.createJourney(msg.Title, msg.Description)

	case journeyform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case topictree.BackMsg:
		m.currentView = ViewJourneys
		return m, m.loadJourneys()

	case topictree.ToggleTopicMsg:
		return m, m.toggleTopic(msg.TopicID, msg.Done)
	case topictree.ToggleTaskMsg:
		return m, m.toggleTask(msg.TaskID, msg.Done)
	case topictree.AddTopicMsg:
		return m, m.addTopic(msg.ParentID, msg.Title)
	case topictree.AddTaskMsg:
		return m, m.addTask(msg.TopicID, msg.Name)
	case topictree.RenameTopicMsg:
		return m, m.renameTopic(msg.TopicID, msg.Title)
	case topictree.DeleteTopicMsg:
		return m, m.deleteTopic(msg.TopicID)
	case topictree.DeleteTaskMsg:
		return m, m.deleteTask(msg.TaskID)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.capturingInput() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case key.Matches(msg, m.keys.Refresh):
			switch m.currentView {
			case ViewJourneys:
				return m, m.loadJourneys()
			case ViewTree:
				return m, m.loadJourney(m.treeView.Journey().ID)
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturingInput reports whether the active view owns every keystroke.
func (m Model) capturingInput() bool {
	switch m.currentView {
	case ViewJourneyForm:
		return true
	case ViewTree:
		return m.treeView.Prompting()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewJourneys:
		m.journeyList, cmd = m.journeyList.Update(msg)
	case ViewTree:
		m.treeView, cmd = m.treeView.Update(msg)
	case ViewJourneyForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Journeys"
	summary := fmt.Sprintf("%d journey(s)", m.journeyList.Len())
	if m.currentView == ViewTree || (m.currentView == ViewHelp && m.previousView == ViewTree) {
		j := m.treeView.Journey()
		title = j.Title
		summary = fmt.Sprintf("%d%% · %d/%d topics · streak %d",
			j.Stats.Progress, j.Stats.CompletedTopics, j.Stats.TotalTopics, j.Stats.CurrentStreak)
	}

	header := m.layout.RenderHeader(title, summary)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewJourneys:
		return m.journeyList.View()
	case ViewTree:
		return m.treeView.View()
	case ViewJourneyForm:
		return m.formView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.status != "" && m.currentView == ViewJourneys {
		return m.status
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewJourneyForm:
		return "enter submit | esc cancel"
	case ViewTree:
		if m.treeView.Prompting() {
			return "enter confirm | esc cancel"
		}
		return "space toggle | T root | t subtopic | a task | e rename | d delete | esc back | ? help"
	default:
		return "q quit | ? help | enter open | n new journey | r reload"
	}
}
