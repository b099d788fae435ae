package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kasstmaster/softdreamingsmember/pkg/botutil"
	"github.com/kasstmaster/softdreamingsmember/pkg/catalog"
	"github.com/kasstmaster/softdreamingsmember/pkg/memberbot"
	"github.com/kasstmaster/softdreamingsmember/pkg/msgstore"
	"github.com/kasstmaster/softdreamingsmember/pkg/pickpool"
	"github.com/kasstmaster/softdreamingsmember/pkg/qotd"
)

// guildStores pairs the two backing messages a guild uses: the member
// document and the pick pool.
type guildStores struct {
	doc  *msgstore.Store
	pool *msgstore.Store
}

type Bot struct {
	*botutil.BaseBot
	stop chan struct{}

	cfg     map[snowflake.ID]guildConfig
	names   *lru.Cache[snowflake.ID, string]
	library *catalog.Library
	qotd    *qotd.Picker

	// deadChatMsgs fans guild messages out to the idle watchers, keyed by
	// channel. Built once in New and only read afterwards.
	deadChatMsgs map[snowflake.ID]chan struct{}

	// mu guards docs, stores and pools across handlers and loops. Every
	// mutation is a read-modify-write against the backing message, so the
	// whole cycle runs under the lock.
	mu          sync.Mutex
	docs        map[snowflake.ID]memberbot.Document
	stores      map[snowflake.ID]*guildStores
	pools       map[snowflake.ID]*pickpool.Pool
	welcomeSent map[snowflake.ID]time.Time
}

func New(token string) (*Bot, error) {
	base, err := botutil.NewBaseBot("MEMBERBOT_ENV")
	if err != nil {
		return nil, err
	}

	b := &Bot{
		BaseBot:      base,
		stop:         make(chan struct{}),
		cfg:          getGuildConfig(base.Env),
		names:        newNameCache(),
		library:      catalog.New(),
		docs:         make(map[snowflake.ID]memberbot.Document),
		stores:       make(map[snowflake.ID]*guildStores),
		pools:        make(map[snowflake.ID]*pickpool.Pool),
		welcomeSent:  make(map[snowflake.ID]time.Time),
		deadChatMsgs: make(map[snowflake.ID]chan struct{}),
	}
	for _, cfg := range b.cfg {
		if cfg.GeneralChannelID != 0 && cfg.DeadChatRoleID != 0 {
			b.deadChatMsgs[cfg.GeneralChannelID] = make(chan struct{}, 64)
		}
	}

	sheet, err := qotd.NewGoogleSheet(context.Background())
	if err != nil {
		if !errors.Is(err, qotd.ErrNotConfigured) {
			return nil, fmt.Errorf("initializing qotd sheet: %w", err)
		}
		base.Log.Info("QOTD sheet not configured, daily questions disabled")
	} else {
		b.qotd = qotd.NewPicker(sheet, base.Log)
	}

	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListenerFunc(b.OnReady),
		bot.WithEventListenerFunc(b.onCommand),
		bot.WithEventListenerFunc(b.onComponent),
		bot.WithEventListenerFunc(b.onAutocomplete),
		bot.WithEventListenerFunc(b.onMemberJoin),
		bot.WithEventListenerFunc(b.onMessage),
	)
	if err != nil {
		return nil, err
	}

	b.Client = client
	return b, nil
}

func (b *Bot) Run() error {
	ctx := context.Background()

	b.Log.Info(fmt.Sprintf("Invite: https://discord.com/oauth2/authorize?client_id=%d&scope=bot%%20applications.commands&permissions=268594256", b.Client.ApplicationID))

	if err := b.Client.OpenGateway(ctx); err != nil {
		return err
	}
	defer b.Client.Close(ctx)

	b.openStores()
	b.loadDocuments()
	b.loadPools()
	b.reloadLibrary()
	if err := b.registerAllCommands(); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	b.startDeadChatLoops()
	go botutil.RunSaveLoop(&b.Ready, 30*time.Second, b.stop, b.PingHealthcheck)
	go botutil.RunSaveLoop(&b.Ready, 5*time.Minute, b.stop, b.saveDocuments)
	go botutil.RunSaveLoop(&b.Ready, 5*time.Minute, b.stop, b.savePools)
	go botutil.RunDailyLoop(&b.Ready, 9, 0, b.stop, b.runSeasonSweep)
	go botutil.RunDailyLoop(&b.Ready, 15, 0, b.stop, b.runBirthdaySweep)
	go botutil.RunDailyLoop(&b.Ready, 17, 0, b.stop, b.runDailyQuestion)
	go botutil.RunDailyLoop(&b.Ready, 3, 0, b.stop, b.snapshotToS3)

	botutil.WaitForShutdown(b.Log, "Bot")
	close(b.stop)
	b.saveDocuments()
	b.savePools()
	return nil
}
